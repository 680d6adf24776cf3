package executor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "MissingContainer",
			err:  errors.New("Error response from daemon: No such container: abc"),
			want: "Container was removed unexpectedly",
		},
		{
			name: "Timeout",
			err:  errors.New("timeout after 30s"),
			want: "Execution timed out",
		},
		{
			name: "DeadlineExceeded",
			err:  errors.New("context deadline exceeded"),
			want: "Execution timed out",
		},
		{
			name: "PermissionDenied",
			err:  errors.New("open /var/run/docker.sock: permission denied"),
			want: "Permission denied",
		},
		{
			name: "DiskFull",
			err:  errors.New("write /tmp/x: no space left on device"),
			want: "No disk space available",
		},
		{
			name: "Generic",
			err:  errors.New("something odd happened"),
			want: "Execution failed: something odd happened",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Contains(t, classifyError(tc.err), tc.want)
		})
	}
}
