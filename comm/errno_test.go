package comm_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arloliu/scda/comm"
	"github.com/arloliu/scda/ferror"
	"github.com/stretchr/testify/assert"
)

func TestClassifyErrno(t *testing.T) {
	assert.Equal(t, ferror.MPISuccess, comm.ClassifyErrno(nil))

	_, err := os.Open(filepath.Join(t.TempDir(), "missing"))
	assert.Equal(t, ferror.MPIErrNoSuchFile, comm.ClassifyErrno(err))
}
