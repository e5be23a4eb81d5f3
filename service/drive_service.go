package service

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/flowchartsman/retry"
	"github.com/hbollon/go-edlib"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
)

const (
	mimeTypeDocument     = "application/vnd.google-apps.document"
	mimeTypeSpreadsheet  = "application/vnd.google-apps.spreadsheet"
	mimeTypePresentation = "application/vnd.google-apps.presentation"
	mimeTypeFolder       = "application/vnd.google-apps.folder"
	mimeTypePDF          = "application/pdf"
)

const (
	driveFileFields = "id, name, mimeType, size, modifiedTime, webViewLink, parents"
	driveListFields = "nextPageToken, files(" + driveFileFields + ")"
)

type DriveService struct {
	driveClient *drive.Service
}

func NewDriveService(driveClient *drive.Service) *DriveService {
	return &DriveService{
		driveClient: driveClient,
	}
}

// Queries that already use the Drive search grammar go to the API untouched.
// Anything else is treated as free text.
var driveQueryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(name|fullText|mimeType)\s*(=|!=|contains)`),
	regexp.MustCompile(`(?i)\b(modifiedTime|createdTime|viewedByMeTime)\s*(=|!=|<|<=|>|>=)`),
	regexp.MustCompile(`(?i)\b(trashed|starred|sharedWithMe)\s*=`),
	regexp.MustCompile(`(?i)\bin\s+parents\b`),
	regexp.MustCompile(`(?i)\bproperties\s+has\b`),
	regexp.MustCompile(`'[^']*'\s+in\s+`),
}

func isStructuredQuery(query string) bool {
	for _, pattern := range driveQueryPatterns {
		if pattern.MatchString(query) {
			return true
		}
	}
	return false
}

// escapeQueryTerm escapes a value for a single-quoted Drive query literal.
func escapeQueryTerm(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

type SearchQuery struct {
	Query     string `schema:"q"`
	FolderID  string `schema:"folderId"`
	PageSize  int64  `schema:"pageSize"`
	PageToken string `schema:"pageToken"`
	Lang      string `schema:"lang"`
}

type SearchResult struct {
	Files         []*drive.File
	NextPageToken string
	Query         string
	FreeText      bool
}

func (s *DriveService) Search(q SearchQuery) (*SearchResult, error) {
	text := strings.TrimSpace(q.Query)
	if text == "" {
		return nil, errors.New("search query is empty")
	}

	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}

	freeText := !isStructuredQuery(text)
	finalQuery := text
	if freeText {
		finalQuery = fmt.Sprintf(`fullText contains '%s'`, escapeQueryTerm(text))
	}

	retrier := retry.NewRetrier(5, 100*time.Millisecond, time.Second)

	var res *drive.FileList
	err := retrier.Run(func() error {
		_res, err := s.driveClient.Files.List().
			Q(finalQuery).
			Fields(driveListFields).
			PageSize(pageSize).
			PageToken(q.PageToken).
			Do()
		if err != nil {
			return err
		}

		res = _res
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search drive: %w", err)
	}

	files := res.Files
	if freeText {
		rankBySimilarity(files, text)
	}

	return &SearchResult{
		Files:         files,
		NextPageToken: res.NextPageToken,
		Query:         finalQuery,
		FreeText:      freeText,
	}, nil
}

// rankBySimilarity orders files by Levenshtein similarity of their name to
// the query, most similar first. The API's relevance order breaks ties.
func rankBySimilarity(files []*drive.File, query string) {
	scores := make(map[string]float32, len(files))
	for _, file := range files {
		similarity, err := edlib.StringsSimilarity(file.Name, query, edlib.Levenshtein)
		if err != nil {
			continue
		}
		scores[file.Id] = similarity
	}

	sort.SliceStable(files, func(i, j int) bool {
		return scores[files[i].Id] > scores[files[j].Id]
	})
}

func (s *DriveService) FindAllByFolderID(folderID, pageToken string) ([]*drive.File, string, error) {
	q := fmt.Sprintf(`trashed = false and '%s' in parents`, escapeQueryTerm(folderID))

	res, err := s.driveClient.Files.List().
		Q(q).
		Fields(driveListFields).
		PageSize(100).
		PageToken(pageToken).
		Do()
	if err != nil {
		return nil, "", err
	}

	return res.Files, res.NextPageToken, nil
}

func (s *DriveService) FindOneByID(ID string) (*drive.File, error) {
	retrier := retry.NewRetrier(5, 100*time.Millisecond, time.Second)

	var driveFile *drive.File
	err := retrier.Run(func() error {
		_driveFile, err := s.driveClient.Files.Get(ID).Fields(driveFileFields).Do()
		if err != nil {
			return err
		}

		driveFile = _driveFile
		return nil
	})

	return driveFile, err
}

func (s *DriveService) FindManyByIDs(IDs []string) ([]*drive.File, error) {
	errwg := new(errgroup.Group)
	driveFiles := make([]*drive.File, len(IDs))
	for i := range IDs {
		errwg.Go(func() error {
			driveFile, err := s.FindOneByID(IDs[i])
			if err == nil {
				driveFiles[i] = driveFile
			}
			return err
		})
	}
	err := errwg.Wait()

	return driveFiles, err
}

type CreateFileParams struct {
	Name     string `json:"name"`
	Content  string `json:"content,omitempty"`
	FolderID string `json:"folderId,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

func (s *DriveService) CreateFile(p CreateFileParams) (*drive.File, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, errors.New("file name is required")
	}

	mimeType := p.MimeType
	if mimeType == "" {
		mimeType = "text/plain"
	}

	newFile := &drive.File{
		Name:     p.Name,
		MimeType: mimeType,
	}
	if p.FolderID != "" {
		newFile.Parents = []string{p.FolderID}
	}

	call := s.driveClient.Files.Create(newFile).Fields(driveFileFields)
	if p.Content != "" {
		call = call.Media(strings.NewReader(p.Content), googleapi.ContentType(mimeType))
	}

	return call.Do()
}

// CreateFolder returns the existing folder with that name under the parent,
// or creates it.
func (s *DriveService) CreateFolder(name, parentID string) (*drive.File, error) {
	q := fmt.Sprintf(`name = '%s'`+
		` and trashed = false`+
		` and mimeType = 'application/vnd.google-apps.folder'`, escapeQueryTerm(name))
	if parentID != "" {
		q += fmt.Sprintf(` and '%s' in parents`, parentID)
	}

	res, err := s.driveClient.Files.List().
		Q(q).
		Fields(driveListFields).
		PageSize(1).Do()
	if err != nil {
		return nil, err
	}
	if len(res.Files) != 0 {
		return res.Files[0], nil
	}

	folder := &drive.File{
		Name:     name,
		MimeType: mimeTypeFolder,
	}
	if parentID != "" {
		folder.Parents = []string{parentID}
	}

	return s.driveClient.Files.Create(folder).Fields(driveFileFields).Do()
}

func (s *DriveService) CopyFile(fileID, newName, folderID string) (*drive.File, error) {
	newFile := &drive.File{}
	if newName != "" {
		newFile.Name = newName
	}
	if folderID != "" {
		newFile.Parents = []string{folderID}
	}

	return s.driveClient.Files.Copy(fileID, newFile).Fields(driveFileFields).Do()
}

func (s *DriveService) Rename(ID, newName string) error {
	_, err := s.driveClient.Files.Update(ID, &drive.File{Name: newName}).Do()
	return err
}

func (s *DriveService) Move(fileID, newFolderID string) (*drive.File, error) {
	file, err := s.driveClient.Files.Get(fileID).Fields("parents").Do()
	if err != nil {
		return nil, err
	}

	previousParents := strings.Join(file.Parents, ",")

	newFile, err := s.driveClient.Files.Update(fileID, nil).
		AddParents(newFolderID).RemoveParents(previousParents).Fields(driveFileFields).Do()
	if err != nil {
		return nil, err
	}
	return newFile, err
}

func (s *DriveService) Trash(fileID string) (*drive.File, error) {
	return s.driveClient.Files.Update(fileID, &drive.File{Trashed: true}).
		Fields("id, name, trashed").Do()
}

// Delete permanently deletes a file from Google Drive by its ID.
func (s *DriveService) Delete(fileID string) error {
	return s.driveClient.Files.Delete(fileID).Do()
}

// ExportPlainText downloads a file's content as text. Native Workspace files
// go through the conversion endpoint; anything else is downloaded as-is.
func (s *DriveService) ExportPlainText(fileID string) (string, error) {
	file, err := s.FindOneByID(fileID)
	if err != nil {
		return "", fmt.Errorf("failed to get drive file %s: %w", fileID, err)
	}

	exportMimeType := map[string]string{
		mimeTypeDocument:     "text/plain",
		mimeTypeSpreadsheet:  "text/csv",
		mimeTypePresentation: "text/plain",
	}[file.MimeType]

	retrier := retry.NewRetrier(5, 100*time.Millisecond, time.Second)

	var res *http.Response
	err = retrier.Run(func() error {
		var err error
		if exportMimeType != "" {
			res, err = s.driveClient.Files.Export(fileID, exportMimeType).Download()
		} else {
			res, err = s.driveClient.Files.Get(fileID).Download()
		}
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to download %s: %w", fileID, err)
	}
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", fileID, err)
	}
	if !utf8.Valid(b) {
		return fmt.Sprintf("[binary content, mimeType %s, %d bytes]", file.MimeType, len(b)), nil
	}

	return string(b), nil
}

// ExportPDF renders a document to PDF and stores the result back in Drive.
func (s *DriveService) ExportPDF(fileID, name, folderID string) (*drive.File, error) {
	if name == "" {
		file, err := s.FindOneByID(fileID)
		if err != nil {
			return nil, fmt.Errorf("failed to get drive file %s: %w", fileID, err)
		}
		name = file.Name
	}
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}

	retrier := retry.NewRetrier(5, 100*time.Millisecond, time.Second)

	var res *http.Response
	err := retrier.Run(func() error {
		_res, err := s.driveClient.Files.Export(fileID, mimeTypePDF).Download()
		if err != nil {
			return err
		}

		res = _res
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to export %s as pdf: %w", fileID, err)
	}
	defer res.Body.Close()

	pdf := &drive.File{
		Name:     name,
		MimeType: mimeTypePDF,
	}
	if folderID != "" {
		pdf.Parents = []string{folderID}
	}

	created, err := s.driveClient.Files.Create(pdf).
		Media(res.Body, googleapi.ContentType(mimeTypePDF)).
		Fields(driveFileFields).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to upload exported pdf: %w", err)
	}

	return created, nil
}

// ImageURI resolves a Drive file to a URL the Docs API can fetch. Only image
// files can be placed into a document this way.
func (s *DriveService) ImageURI(fileID string) (string, error) {
	file, err := s.driveClient.Files.Get(fileID).Fields("id, name, mimeType").Do()
	if err != nil {
		return "", fmt.Errorf("failed to get drive file %s: %w", fileID, err)
	}
	if !strings.HasPrefix(file.MimeType, "image/") {
		return "", fmt.Errorf("drive file %s is %s, not an image", fileID, file.MimeType)
	}

	return fmt.Sprintf("https://drive.google.com/uc?id=%s", file.Id), nil
}
