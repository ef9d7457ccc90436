package sshutils

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// uploadAttempts is the total budget for full open-and-transfer cycles. It is
// independent of the connection-level retry inside open; a transfer that fails
// after a successful connection consumes one attempt here.
const uploadAttempts = 5

// uploadRetryDelay separates upload attempts. Tests zero it.
var uploadRetryDelay = 1 * time.Second

// sftpClientCreator is swapped out by tests.
var sftpClientCreator = newSFTPClient

func newSFTPClient(client *ssh.Client) (SFTPClienter, error) {
	c, err := sftp.NewClient(client)
	if err != nil {
		return nil, err
	}
	return &sftpClientAdapter{client: c}, nil
}

type sftpClientAdapter struct {
	client *sftp.Client
}

func (a *sftpClientAdapter) Create(path string) (io.WriteCloser, error) {
	return a.client.Create(path)
}

func (a *sftpClientAdapter) Close() error {
	return a.client.Close()
}

// UploadSource is either a local file path or an in-memory payload. Each
// upload attempt re-reads it from the start; there is no resume.
type UploadSource struct {
	Path    string
	Content []byte
}

// FileSource uploads from a local file.
func FileSource(path string) UploadSource {
	return UploadSource{Path: path}
}

// BytesSource uploads an in-memory payload.
func BytesSource(content []byte) UploadSource {
	return UploadSource{Content: content}
}

func (s UploadSource) reader() (io.ReadCloser, error) {
	if s.Path != "" {
		return os.Open(s.Path)
	}
	return io.NopCloser(bytes.NewReader(s.Content)), nil
}

// transferError marks a failure in the transfer itself, after a connection was
// established. Only this class re-triggers the outer upload retry.
type transferError struct {
	err error
}

func (e *transferError) Error() string { return e.err.Error() }
func (e *transferError) Unwrap() error { return e.err }

// Upload copies src to the absolute remote path destPath. The whole
// open-connection-and-transfer cycle is retried up to 5 times on transfer
// I/O failure; every other failure class aborts immediately with its typed
// reason.
func (c *Communicator) Upload(src UploadSource, destPath string) error {
	attempt := 0
	operation := func() error {
		attempt++
		c.l.Debugf("upload attempt %d/%d to %s:%s", attempt, uploadAttempts, c.machine.Name, destPath)

		err := c.open(ExecuteOptions{}, func(sess *Session) error {
			return transferTo(sess.client, src, destPath)
		})
		if err == nil {
			return nil
		}

		var tErr *transferError
		if errors.As(err, &tErr) {
			c.l.Debugf("upload attempt %d failed: %v", attempt, err)
			return err
		}
		// Connection, permission, and port failures keep their own
		// classification; re-running the cycle would only mask them.
		return backoff.Permanent(err)
	}

	bo := backoff.WithMaxRetries(backoff.NewConstantBackOff(uploadRetryDelay), uploadAttempts-1)
	if err := backoff.Retry(operation, bo); err != nil {
		var tErr *transferError
		if errors.As(err, &tErr) {
			return fmt.Errorf("upload to %s failed after %d attempts: %w", destPath, uploadAttempts, tErr.err)
		}
		return err
	}
	return nil
}

func transferTo(client SSHClienter, src UploadSource, destPath string) error {
	// A source that cannot be opened locally will not open on the next
	// attempt either; only remote I/O gets the retry treatment.
	reader, err := src.reader()
	if err != nil {
		return fmt.Errorf("failed to open upload source: %w", err)
	}
	defer reader.Close()

	sftpClient, err := sftpClientCreator(client.Raw())
	if err != nil {
		return &transferError{err: fmt.Errorf("failed to open SFTP channel: %w", err)}
	}
	defer sftpClient.Close()

	remote, err := sftpClient.Create(destPath)
	if err != nil {
		return &transferError{err: fmt.Errorf("failed to create %s: %w", destPath, err)}
	}
	defer remote.Close()

	if _, err := io.Copy(remote, reader); err != nil {
		return &transferError{err: fmt.Errorf("failed to write %s: %w", destPath, err)}
	}
	return nil
}
