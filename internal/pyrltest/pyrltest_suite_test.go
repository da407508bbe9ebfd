package pyrltest_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
)

func TestPyrl(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Pyrl Language Suite")
}
