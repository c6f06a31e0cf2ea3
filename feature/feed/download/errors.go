package download

import "fmt"

// ConnectionError reports an unreachable host or a rejected login.
type ConnectionError struct {
	Host string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("ftp connection to %s failed: %v", e.Host, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// TransferError reports a missing remote file or an incomplete transfer.
type TransferError struct {
	File string
	Msg  string
	Err  error
}

func (e *TransferError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ftp transfer of %s failed: %s: %v", e.File, e.Msg, e.Err)
	}
	return fmt.Sprintf("ftp transfer of %s failed: %s", e.File, e.Msg)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}
