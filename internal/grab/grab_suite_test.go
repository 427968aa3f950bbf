package grab_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestGrab(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Grab Suite")
}
