package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/naveenspark/studyhall/pkg/domain"
)

const pathNoteUpload = "/notes/note-upload"

// UploadNote sends the text read from r as a note file called name. The
// server only accepts UTF-8 text.
func (c *Client) UploadNote(ctx context.Context, name string, r io.Reader) (domain.Note, error) {
	token, err := c.authorized()
	if err != nil {
		return domain.Note{}, fmt.Errorf("client.UploadNote: %w", err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(domain.NoteField, name)
	if err != nil {
		return domain.Note{}, fmt.Errorf("client.UploadNote: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return domain.Note{}, fmt.Errorf("client.UploadNote: read note: %w", err)
	}
	if err := mw.Close(); err != nil {
		return domain.Note{}, fmt.Errorf("client.UploadNote: %w", err)
	}

	fields, err := c.doRequest(ctx, http.MethodPost, pathNoteUpload, mw.FormDataContentType(), &buf, token)
	if err != nil {
		return domain.Note{}, fmt.Errorf("client.UploadNote: %w", err)
	}
	note := domain.Note{Name: name}
	if err := decodeField(fields, "noteId", &note.IDs); err != nil {
		return domain.Note{}, fmt.Errorf("client.UploadNote: %w", err)
	}
	return note, nil
}
