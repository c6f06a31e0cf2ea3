package download

import (
	"context"
	"io"
	"time"

	"github.com/jlaffaye/ftp"
)

// Conn is the part of an FTP session the downloader needs.
type Conn interface {
	Login(user, password string) error
	ChangeDir(path string) error
	FileSize(path string) (int64, error)
	Retr(path string) (io.ReadCloser, error)
	Quit() error
}

// DialFunc opens an FTP session.
type DialFunc func(ctx context.Context, addr string, timeout time.Duration) (Conn, error)

// DialFTP opens a real FTP session with jlaffaye/ftp.
func DialFTP(ctx context.Context, addr string, timeout time.Duration) (Conn, error) {
	c, err := ftp.Dial(addr, ftp.DialWithContext(ctx), ftp.DialWithTimeout(timeout))
	if err != nil {
		return nil, err
	}
	return &serverConn{c}, nil
}

type serverConn struct {
	*ftp.ServerConn
}

func (c *serverConn) Retr(path string) (io.ReadCloser, error) {
	return c.ServerConn.Retr(path)
}
