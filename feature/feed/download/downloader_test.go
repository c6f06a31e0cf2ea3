package download

import (
	"context"
	"errors"
	"io"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeConn struct {
	files    map[string]string
	sizes    map[string]int64
	loginErr error
	dirErr   error
	sizeErr  error
	closeErr error

	dir    string
	quits  int
	closed bool
}

func (f *fakeConn) Login(user, password string) error { return f.loginErr }

func (f *fakeConn) ChangeDir(path string) error {
	f.dir = path
	return f.dirErr
}

func (f *fakeConn) FileSize(path string) (int64, error) {
	if f.sizeErr != nil {
		return 0, f.sizeErr
	}
	if s, ok := f.sizes[path]; ok {
		return s, nil
	}
	body, ok := f.files[path]
	if !ok {
		return 0, &textproto.Error{Code: 550, Msg: "No such file"}
	}
	return int64(len(body)), nil
}

func (f *fakeConn) Retr(path string) (io.ReadCloser, error) {
	body, ok := f.files[path]
	if !ok {
		return nil, &textproto.Error{Code: 550, Msg: "No such file"}
	}
	return &fakeBody{Reader: strings.NewReader(body), conn: f}, nil
}

func (f *fakeConn) Quit() error {
	f.quits++
	return nil
}

type fakeBody struct {
	*strings.Reader
	conn *fakeConn
}

func (b *fakeBody) Close() error {
	b.conn.closed = true
	return b.conn.closeErr
}

func dialer(conn *fakeConn, err error) DialFunc {
	return func(ctx context.Context, addr string, timeout time.Duration) (Conn, error) {
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
}

func newDownloader(conn *fakeConn, dialErr error) *Downloader {
	cfg := Config{Host: "ftp.example.com:21", User: "u", Password: "p", Dir: "TOBACCO"}
	return NewWithDialer(cfg, zap.NewNop(), dialer(conn, dialErr))
}

func TestDownload_Success(t *testing.T) {
	conn := &fakeConn{files: map[string]string{"TobaccoData.xml": "<TobaccoData/>"}}
	local := filepath.Join(t.TempDir(), "TobaccoData.xml")

	res, err := newDownloader(conn, nil).Download(context.Background(), "TobaccoData.xml", local)
	require.NoError(t, err)

	assert.Equal(t, local, res.LocalPath)
	assert.Equal(t, int64(14), res.Bytes)
	assert.Equal(t, "TOBACCO", conn.dir)
	assert.Equal(t, 1, conn.quits)
	assert.True(t, conn.closed)

	data, err := os.ReadFile(local)
	require.NoError(t, err)
	assert.Equal(t, "<TobaccoData/>", string(data))
	assert.NoFileExists(t, local+".part")
}

func TestDownload_Failures(t *testing.T) {
	tests := []struct {
		name      string
		conn      *fakeConn
		dialErr   error
		wantConn  bool
		wantQuits int
	}{
		{"Dial fails", &fakeConn{}, errors.New("connection refused"), true, 0},
		{"Login rejected", &fakeConn{loginErr: errors.New("530 Login incorrect")}, nil, true, 1},
		{"Missing directory", &fakeConn{dirErr: errors.New("550 no dir")}, nil, false, 1},
		{"Missing file", &fakeConn{files: map[string]string{}}, nil, false, 1},
		{"Truncated", &fakeConn{files: map[string]string{"TobaccoData.xml": "<Tob"}, sizes: map[string]int64{"TobaccoData.xml": 100}}, nil, false, 1},
		{"Transfer not confirmed", &fakeConn{files: map[string]string{"TobaccoData.xml": "<T/>"}, closeErr: errors.New("426 aborted")}, nil, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local := filepath.Join(t.TempDir(), "TobaccoData.xml")

			_, err := newDownloader(tt.conn, tt.dialErr).Download(context.Background(), "TobaccoData.xml", local)
			require.Error(t, err)

			var connErr *ConnectionError
			var transferErr *TransferError
			if tt.wantConn {
				assert.ErrorAs(t, err, &connErr)
			} else {
				assert.ErrorAs(t, err, &transferErr)
			}
			assert.Equal(t, tt.wantQuits, tt.conn.quits)
			assert.NoFileExists(t, local)
			assert.NoFileExists(t, local+".part")
		})
	}
}

func TestDownload_UnknownSize(t *testing.T) {
	conn := &fakeConn{
		files:   map[string]string{"TobaccoData.xml": "<TobaccoData/>"},
		sizeErr: &textproto.Error{Code: 502, Msg: "SIZE not implemented"},
	}
	local := filepath.Join(t.TempDir(), "TobaccoData.xml")

	res, err := newDownloader(conn, nil).Download(context.Background(), "TobaccoData.xml", local)
	require.NoError(t, err)
	assert.Equal(t, int64(14), res.Bytes)
}

func TestDownload_Canceled(t *testing.T) {
	conn := &fakeConn{files: map[string]string{"TobaccoData.xml": "<TobaccoData/>"}}
	local := filepath.Join(t.TempDir(), "TobaccoData.xml")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newDownloader(conn, nil).Download(ctx, "TobaccoData.xml", local)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, conn.quits)
	assert.NoFileExists(t, local)
}

func TestConfigTimeout(t *testing.T) {
	assert.Equal(t, 30*time.Second, Config{}.Timeout())
	assert.Equal(t, 5*time.Second, Config{TimeoutSeconds: 5}.Timeout())
}
