package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"foodfast/internal/core/domain/model/kernel"
	"foodfast/internal/pkg/guard"
)

var (
	ErrSubmitUploadCommandIsNotConstructed = errors.New(
		"SubmitUploadCommand must be created via NewSubmitUploadCommand constructor",
	)

	// ErrInvalidUpload is returned when an upload is rejected before any
	// side effect: bad extension, empty content, or size over the cap.
	ErrInvalidUpload = errors.New("invalid upload")
)

// MaxUploadSize caps a single menu image upload at 16 MiB.
const MaxUploadSize = 16 << 20

func allowedExtensions() map[string]struct{} {
	return map[string]struct{}{
		".png":  {},
		".jpg":  {},
		".jpeg": {},
		".gif":  {},
		".webp": {},
	}
}

// SubmitUploadCommand represents a request to upload a restaurant menu image
// for asynchronous processing. Validation happens entirely up front: a
// rejected upload leaves no trace in storage or the job queue.
type SubmitUploadCommand struct { //nolint:recvcheck //using for validation
	jobID        kernel.UUID
	restaurantID kernel.UUID
	filename     string
	size         int64
	content      io.Reader

	guard guard.ConstructorGuard
}

// NewSubmitUploadCommand creates a command to submit a menu image upload.
// The filename's extension must be one of png, jpg, jpeg, gif, webp and the
// declared size must be positive and at most MaxUploadSize.
func NewSubmitUploadCommand(
	jobID, restaurantID kernel.UUID,
	filename string,
	size int64,
	content io.Reader,
) (SubmitUploadCommand, error) {
	command := SubmitUploadCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setJobID(jobID),
		command.setRestaurantID(restaurantID),
		command.setFilename(filename),
		command.setSize(size),
		command.setContent(content),
	); err != nil {
		return SubmitUploadCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c SubmitUploadCommand) Validate() error {
	return c.guard.Validate(ErrSubmitUploadCommandIsNotConstructed)
}

// JobID returns the identifier of the job tracking this upload.
func (c SubmitUploadCommand) JobID() kernel.UUID {
	return c.jobID
}

// RestaurantID returns the restaurant the image belongs to.
func (c SubmitUploadCommand) RestaurantID() kernel.UUID {
	return c.restaurantID
}

// Filename returns the client-supplied file name.
func (c SubmitUploadCommand) Filename() string {
	return c.filename
}

// Size returns the declared content size in bytes.
func (c SubmitUploadCommand) Size() int64 {
	return c.size
}

// Content returns the raw upload bytes.
func (c SubmitUploadCommand) Content() io.Reader {
	return c.content
}

// Extension returns the lowercased file extension including the dot.
func (c SubmitUploadCommand) Extension() string {
	return strings.ToLower(filepath.Ext(c.filename))
}

func (c *SubmitUploadCommand) setJobID(jobID kernel.UUID) error {
	if err := jobID.Validate(); err != nil {
		return err
	}

	c.jobID = jobID
	return nil
}

func (c *SubmitUploadCommand) setRestaurantID(restaurantID kernel.UUID) error {
	if err := restaurantID.Validate(); err != nil {
		return err
	}

	c.restaurantID = restaurantID
	return nil
}

func (c *SubmitUploadCommand) setFilename(filename string) error {
	if filename == "" {
		return fmt.Errorf("%w: filename is required", ErrInvalidUpload)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions()[ext]; !ok {
		return fmt.Errorf("%w: extension %q is not allowed", ErrInvalidUpload, ext)
	}

	c.filename = filename
	return nil
}

func (c *SubmitUploadCommand) setSize(size int64) error {
	if size <= 0 {
		return fmt.Errorf("%w: content is empty", ErrInvalidUpload)
	}
	if size > MaxUploadSize {
		return fmt.Errorf("%w: %d bytes exceeds the %d byte limit", ErrInvalidUpload, size, MaxUploadSize)
	}

	c.size = size
	return nil
}

func (c *SubmitUploadCommand) setContent(content io.Reader) error {
	if content == nil {
		return fmt.Errorf("%w: content is required", ErrInvalidUpload)
	}

	c.content = content
	return nil
}
