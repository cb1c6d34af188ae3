package transfer

import (
	"io"
	"os"
)

// WriteFile creates path and fills it with write. The Close error is returned
// when write succeeded, so a failed final flush is reported as a failure.
func WriteFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}
