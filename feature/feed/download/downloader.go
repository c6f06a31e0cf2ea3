package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"os"

	"github.com/jlaffaye/ftp"
	"go.uber.org/zap"
)

// Result describes a completed download.
type Result struct {
	LocalPath string
	Bytes     int64
}

// Downloader fetches one named file from the feed host.
type Downloader struct {
	cfg    Config
	dial   DialFunc
	logger *zap.Logger
}

// New creates a downloader using a real FTP dialer.
func New(cfg Config, logger *zap.Logger) *Downloader {
	return NewWithDialer(cfg, logger, DialFTP)
}

// NewWithDialer creates a downloader with a custom dialer.
func NewWithDialer(cfg Config, logger *zap.Logger, dial DialFunc) *Downloader {
	return &Downloader{cfg: cfg, dial: dial, logger: logger}
}

// Download retrieves fileName from the configured directory into localPath.
//
// The file is written to localPath+".part" and renamed only once it is complete,
// so a failed transfer never leaves a partial feed behind. The FTP session is
// closed on every path.
func (d *Downloader) Download(ctx context.Context, fileName, localPath string) (Result, error) {
	conn, err := d.dial(ctx, d.cfg.Host, d.cfg.Timeout())
	if err != nil {
		return Result{}, &ConnectionError{Host: d.cfg.Host, Err: err}
	}
	defer func() {
		if err := conn.Quit(); err != nil {
			d.logger.Warn("Failed to close ftp connection", zap.String("host", d.cfg.Host), zap.Error(err))
		}
	}()

	if err := conn.Login(d.cfg.User, d.cfg.Password); err != nil {
		return Result{}, &ConnectionError{Host: d.cfg.Host, Err: err}
	}

	if d.cfg.Dir != "" {
		if err := conn.ChangeDir(d.cfg.Dir); err != nil {
			return Result{}, &TransferError{File: fileName, Msg: "cannot enter directory " + d.cfg.Dir, Err: err}
		}
	}

	// Servers without SIZE support report a protocol error; the transfer then
	// relies on the server's end-of-transfer status alone.
	size, err := conn.FileSize(fileName)
	if err != nil {
		if isFileUnavailable(err) {
			return Result{}, &TransferError{File: fileName, Msg: "remote file not found", Err: err}
		}
		d.logger.Debug("Remote file size unknown", zap.String("file_name", fileName), zap.Error(err))
		size = -1
	}

	body, err := conn.Retr(fileName)
	if err != nil {
		return Result{}, &TransferError{File: fileName, Msg: "retrieve failed", Err: err}
	}

	written, err := d.store(ctx, body, localPath)
	closeErr := body.Close()
	if err != nil {
		return Result{}, &TransferError{File: fileName, Msg: "write failed", Err: err}
	}
	if closeErr != nil {
		_ = os.Remove(localPath + ".part")
		return Result{}, &TransferError{File: fileName, Msg: "transfer not confirmed", Err: closeErr}
	}
	if size >= 0 && written != size {
		_ = os.Remove(localPath + ".part")
		return Result{}, &TransferError{File: fileName, Msg: fmt.Sprintf("truncated: got %d of %d bytes", written, size)}
	}

	if err := os.Rename(localPath+".part", localPath); err != nil {
		_ = os.Remove(localPath + ".part")
		return Result{}, &TransferError{File: fileName, Msg: "finalize failed", Err: err}
	}

	d.logger.Info("Feed downloaded",
		zap.String("host", d.cfg.Host),
		zap.String("file_name", fileName),
		zap.String("local_path", localPath),
		zap.Int64("bytes", written),
	)
	return Result{LocalPath: localPath, Bytes: written}, nil
}

func (d *Downloader) store(ctx context.Context, body io.Reader, localPath string) (int64, error) {
	part := localPath + ".part"
	f, err := os.Create(part)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(f, &ctxReader{ctx: ctx, r: body})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(part)
		return n, err
	}
	return n, nil
}

func isFileUnavailable(err error) bool {
	var tpErr *textproto.Error
	return errors.As(err, &tpErr) && tpErr.Code == ftp.StatusFileUnavailable
}

// ctxReader stops a copy once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
