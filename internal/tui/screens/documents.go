package screens

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jobdeck/jobdeck/internal/feed"
	"github.com/jobdeck/jobdeck/internal/models"
	"github.com/jobdeck/jobdeck/internal/repository"
	"github.com/jobdeck/jobdeck/internal/storage"
)

type documentsMode int

const (
	documentsModeList documentsMode = iota
	documentsModeUpload
	documentsModeDelete
)

type Documents struct {
	db     *sql.DB
	userID int64
	bucket *storage.Bucket
	feed   *feed.Feed
	width  int
	height int

	documents []models.Document
	cursor    int
	mode      documentsMode
	input     textinput.Model
	loading   bool
	err       error
	message   string
}

func NewDocuments(db *sql.DB, userID int64, bucket *storage.Bucket, f *feed.Feed) *Documents {
	ti := textinput.New()
	ti.Placeholder = "/path/to/file.pdf"
	ti.CharLimit = 250
	ti.Width = 50

	return &Documents{
		db:     db,
		userID: userID,
		bucket: bucket,
		feed:   f,
		input:  ti,
	}
}

func (d *Documents) SetSize(width, height int) {
	d.width = width
	d.height = height
}

type documentsDataMsg struct {
	documents []models.Document
	err       error
}

func (d *Documents) Init() tea.Cmd {
	d.loading = true
	d.mode = documentsModeList
	d.message = ""
	return d.loadData
}

func (d *Documents) repo() *repository.DocumentRepo {
	return repository.NewDocumentRepo(d.db, d.feed)
}

func (d *Documents) loadData() tea.Msg {
	docs := d.repo()

	// Objects uploaded out of band get metadata rows inserted silently;
	// a reconcile failure never blocks the listing.
	_, _ = storage.NewReconciler(d.bucket, docs).Reconcile(d.userID)

	documents, err := docs.GetAll(d.userID)
	return documentsDataMsg{documents: documents, err: err}
}

func (d *Documents) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case documentsDataMsg:
		d.loading = false
		d.err = msg.err
		d.documents = msg.documents
		if d.cursor >= len(d.documents) {
			d.cursor = max(0, len(d.documents)-1)
		}
		return nil

	case RefreshMsg:
		return d.Init()

	case tea.KeyMsg:
		return d.handleKey(msg)
	}

	if d.mode == documentsModeUpload {
		var cmd tea.Cmd
		d.input, cmd = d.input.Update(msg)
		return cmd
	}

	return nil
}

func (d *Documents) selected() *models.Document {
	if d.cursor < len(d.documents) {
		return &d.documents[d.cursor]
	}
	return nil
}

func (d *Documents) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch d.mode {
	case documentsModeList:
		return d.handleListKey(msg)
	case documentsModeUpload:
		return d.handleUploadKey(msg)
	case documentsModeDelete:
		return d.handleDeleteKey(msg)
	}
	return nil
}

func (d *Documents) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if d.cursor > 0 {
			d.cursor--
		}
	case "down", "j":
		if d.cursor < len(d.documents)-1 {
			d.cursor++
		}
	case "u":
		d.mode = documentsModeUpload
		d.input.SetValue("")
		d.input.Focus()
	case "s":
		if doc := d.selected(); doc != nil {
			url, expires, err := d.bucket.SignedURL(d.userID, doc.StoragePath)
			if err != nil {
				d.err = err
			} else {
				d.message = fmt.Sprintf("%s (valid until %s)", url, expires.Format("15:04"))
			}
		}
	case "d":
		if d.selected() != nil {
			d.mode = documentsModeDelete
		}
	case "q", "esc":
		return Navigate("dashboard")
	}
	return nil
}

func (d *Documents) handleUploadKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		localPath := strings.TrimSpace(d.input.Value())
		if localPath == "" {
			d.mode = documentsModeList
			d.input.Blur()
			return nil
		}

		storagePath, err := d.bucket.UploadFile(d.userID, localPath)
		if err != nil {
			d.err = err
			d.mode = documentsModeList
			d.input.Blur()
			return nil
		}

		name := storagePath[strings.Index(storagePath, "/")+1:]
		if _, err := d.repo().Create(d.userID, nil, name, storagePath, storage.FileType(name)); err != nil {
			d.err = err
		} else {
			d.message = fmt.Sprintf("Uploaded %s", name)
		}
		d.mode = documentsModeList
		d.input.Blur()
		return d.loadData

	case "esc":
		d.mode = documentsModeList
		d.input.Blur()
	default:
		var cmd tea.Cmd
		d.input, cmd = d.input.Update(msg)
		return cmd
	}
	return nil
}

func (d *Documents) handleDeleteKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		if doc := d.selected(); doc != nil {
			// Object first, row second: a surviving row keeps the object
			// addressable for a retry, while a surviving object would come
			// back as an unlinked row on the next reconcile.
			if err := d.bucket.Delete(d.userID, doc.StoragePath); err != nil {
				d.err = err
			} else if err := d.repo().Delete(d.userID, doc.ID); err != nil {
				d.err = err
			} else {
				d.message = fmt.Sprintf("Deleted %s", doc.FileName)
			}
		}
		d.mode = documentsModeList
		return d.loadData

	case "n", "N", "esc":
		d.mode = documentsModeList
	}
	return nil
}

func (d *Documents) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("DOCUMENTS"))
	b.WriteString("\n\n")

	if d.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if d.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", d.err)))
		b.WriteString("\n\n")
		d.err = nil
	}

	if d.message != "" {
		b.WriteString(SuccessStyle.Render(d.message))
		b.WriteString("\n\n")
	}

	if d.mode == documentsModeUpload {
		b.WriteString("Upload file from local path:\n")
		b.WriteString(d.input.View())
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render("[enter] Upload  [esc] Cancel"))
		return b.String()
	}

	if d.mode == documentsModeDelete {
		if doc := d.selected(); doc != nil {
			b.WriteString(WarningStyle.Render(fmt.Sprintf(
				"Delete '%s' and its stored file? (y/n)", doc.FileName,
			)))
			b.WriteString("\n")
		}
		return b.String()
	}

	if len(d.documents) == 0 {
		b.WriteString(DimStyle.Render("No documents. Press 'u' to upload one."))
		b.WriteString("\n\n")
	} else {
		for i, doc := range d.documents {
			cursor := "  "
			style := NormalStyle
			if i == d.cursor {
				cursor = "> "
				style = SelectedStyle
			}

			linked := ""
			if doc.Company != "" {
				linked = fmt.Sprintf(" (%s)", doc.Company)
			}

			line := fmt.Sprintf("%s%s [%s]%s · %s",
				cursor, doc.FileName, doc.FileType, linked,
				doc.CreatedAt.Format("Jan 02 2006"),
			)
			b.WriteString(style.Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	help := "[u] Upload  [s] Signed link  [d] Delete  [q] Back"
	b.WriteString(HelpStyle.Render(help))

	return b.String()
}
