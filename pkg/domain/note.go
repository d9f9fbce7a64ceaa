package domain

// NoteField is the multipart form field a note file is uploaded under.
const NoteField = "note"

// Note is an uploaded study note. The server indexes a note as one or more
// documents and returns their ids.
type Note struct {
	Name string   `json:"name"`
	IDs  []string `json:"noteId"`
}
