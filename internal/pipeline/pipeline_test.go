package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammadolammi/resumematch/internal/extract"
	"github.com/muhammadolammi/resumematch/internal/extract/extracttest"
	"github.com/muhammadolammi/resumematch/internal/fetch"
	"github.com/muhammadolammi/resumematch/internal/resume"
)

const sampleText = `Jane Doe
jane.doe@example.com | 555-123-4567
Location: Toronto, Canada

Work Experience
Senior Engineer at Acme Corp
Built things

Education
BSc Computer Science
Stanford University

Skills: Go, Python, SQL
`

const docxMime = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

func newTestPipeline() *Pipeline {
	return New(5*time.Second, fetch.NewClient(time.Second, "", 0, nil), 0, nil)
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		mime, file string
		want       resume.Format
	}{
		{"application/pdf", "", resume.FormatPDF},
		{"Application/PDF; charset=binary", "cv.bin", resume.FormatPDF},
		{docxMime, "cv", resume.FormatDocx},
		{"image/png", "", resume.FormatImage},
		{"image/jpeg", "", resume.FormatImage},
		{"image/webp", "scan.webp", resume.FormatImage},
		{"image/gif", "scan.gif", resume.FormatImage},
		{"IMAGE/HEIC", "scan.heic", resume.FormatImage},
		{"", "scan.webp", resume.FormatUnsupported},
		{"text/plain; charset=utf-8", "", resume.FormatText},
		{"", "CV.PDF", resume.FormatPDF},
		{"application/octet-stream", "resume.docx", resume.FormatDocx},
		{"", "scan.JPEG", resume.FormatImage},
		{"", `C:\Users\jane\notes.txt`, resume.FormatText},
		{"application/pdf", "resume.docx", resume.FormatPDF},
		{"", "sheet.xlsx", resume.FormatUnsupported},
		{"", "", resume.FormatUnsupported},
		{"not a mime", "archive.tar.gz", resume.FormatUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.mime+"|"+tt.file, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.mime, tt.file))
		})
	}
}

func TestDispatchText(t *testing.T) {
	got, err := newTestPipeline().Dispatch(context.Background(), &resume.RawDocument{
		Bytes:            []byte(sampleText),
		DeclaredMimeType: "text/plain",
		FileName:         "jane.txt",
	})

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, "jane.doe@example.com", got.Contact.Email)
	assert.Equal(t, "555-123-4567", got.Contact.Phone)
	assert.Equal(t, "Toronto, Canada", got.Contact.Location)
	require.Len(t, got.Experience, 1)
	assert.Equal(t, "Acme Corp", got.Experience[0].Company)
	require.Len(t, got.Education, 1)
	assert.Equal(t, "Stanford University", got.Education[0].Institution)
	assert.Equal(t, []string{"Go", "Python", "SQL"}, got.Skills)
	assert.Equal(t, sampleText, got.FullText)
	assert.Equal(t, resume.FormatText, got.FormatUsed)
	assert.Empty(t, got.ParseError)
}

func TestDispatchDocx(t *testing.T) {
	data := extracttest.Docx("Jane Doe", "jane@example.com", "", "Skills: Go, Kubernetes")

	got, err := newTestPipeline().Dispatch(context.Background(), &resume.RawDocument{
		Bytes:            data,
		DeclaredMimeType: docxMime,
		FileName:         "jane.docx",
	})

	require.NoError(t, err)
	assert.Equal(t, resume.FormatDocx, got.FormatUsed)
	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, "jane@example.com", got.Contact.Email)
	assert.Equal(t, []string{"Go", "Kubernetes"}, got.Skills)
}

func TestDispatchDocxParagraphsAreLines(t *testing.T) {
	data := extracttest.Docx("Jane Doe", "Work Experience", "Engineer at Acme")

	got, err := newTestPipeline().Dispatch(context.Background(), &resume.RawDocument{
		Bytes:            data,
		DeclaredMimeType: docxMime,
		FileName:         "jane.docx",
	})

	require.NoError(t, err)
	require.Len(t, got.Experience, 1)
	assert.Equal(t, "Jane Doe", got.Experience[0].Title)
	assert.Equal(t, "Acme", got.Experience[0].Company)
	assert.Empty(t, got.Education)
}

func TestDispatchPDF(t *testing.T) {
	data := extracttest.PDF("Jane Doe ", "jane@example.com")

	got, err := newTestPipeline().Dispatch(context.Background(), &resume.RawDocument{
		Bytes:    data,
		FileName: "jane.pdf",
	})

	require.NoError(t, err)
	assert.Equal(t, resume.FormatPDF, got.FormatUsed)
	assert.Equal(t, "jane@example.com", got.Contact.Email)
	assert.Contains(t, got.FullText, "Jane Doe")
}

func TestDispatchNeverFails(t *testing.T) {
	tests := []struct {
		name, mime, file string
		data             []byte
		format           resume.Format
		notes            []string
	}{
		{"empty pdf", "application/pdf", "a.pdf", nil, resume.FormatPDF, []string{extract.NotePDFUnparsed, extract.NoteNoTextLayer}},
		{"garbage pdf", "application/pdf", "b.pdf", []byte("%PDF-garbage"), resume.FormatPDF, []string{extract.NotePDFUnparsed, extract.NoteNoTextLayer}},
		{"blank pdf", "application/pdf", "c.pdf", fetch.Placeholder(), resume.FormatPDF, []string{extract.NotePDFUnparsed, extract.NoteNoTextLayer}},
		{"empty docx", docxMime, "d.docx", nil, resume.FormatDocx, []string{extract.NoteDocxUnparsed}},
		{"garbage docx", "", "e.docx", []byte("not a zip"), resume.FormatDocx, []string{extract.NoteDocxUnparsed}},
		{"image", "image/png", "f.png", []byte("\x89PNG"), resume.FormatImage, []string{extract.NoteImage}},
		{"empty text", "text/plain", "g.txt", nil, resume.FormatText, []string{extract.NoteEmptyText}},
		{"spreadsheet", "", "h.xlsx", []byte("PK"), resume.FormatUnsupported, []string{NoteUnsupported}},
	}
	p := newTestPipeline()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Dispatch(context.Background(), &resume.RawDocument{
				Bytes:            tt.data,
				DeclaredMimeType: tt.mime,
				FileName:         tt.file,
			})

			require.NoError(t, err)
			assert.Equal(t, tt.format, got.FormatUsed)
			assert.Contains(t, tt.notes, got.Summary)
			assert.Equal(t, FileTitle(tt.file), got.Name)
			assert.Empty(t, got.FullText)
			assert.Equal(t, resume.Contact{}, got.Contact)
			assert.NotNil(t, got.Experience)
			assert.Empty(t, got.Experience)
			assert.NotNil(t, got.Education)
			assert.Empty(t, got.Education)
			assert.NotNil(t, got.Skills)
			assert.Empty(t, got.Skills)
		})
	}
}

func TestDispatchAnyImageType(t *testing.T) {
	got, err := newTestPipeline().Dispatch(context.Background(), &resume.RawDocument{
		Bytes:            []byte("RIFF\x00\x00\x00\x00WEBP"),
		DeclaredMimeType: "image/webp",
		FileName:         "scan.webp",
	})

	require.NoError(t, err)
	assert.Equal(t, resume.FormatImage, got.FormatUsed)
	assert.Equal(t, extract.NoteImage, got.Summary)
	assert.Equal(t, "scan", got.Name)
}

type slowPDF struct{ delay time.Duration }

func (slowPDF) Name() string { return "slow" }

func (d slowPDF) Decode([]byte) (string, error) {
	time.Sleep(d.delay)
	return "Jane Doe\njane@example.com", nil
}

func TestDispatchTimeoutIsTransient(t *testing.T) {
	p := newTestPipeline()
	doc := &resume.RawDocument{Bytes: []byte("%PDF-1.4"), FileName: "jane.pdf"}

	p.PDF = &extract.PDF{Timeout: 10 * time.Millisecond, Decoders: []extract.Decoder{slowPDF{delay: 500 * time.Millisecond}}}
	got, err := p.Dispatch(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, got.Transient)
	assert.Equal(t, "jane", got.Name)
	assert.Contains(t, got.ParseError, resume.ErrDecodeTimeout.Error())

	p.PDF = &extract.PDF{Timeout: 5 * time.Second, Decoders: []extract.Decoder{slowPDF{delay: 10 * time.Millisecond}}}
	got, err = p.Dispatch(context.Background(), doc)
	require.NoError(t, err)
	assert.False(t, got.Transient)
	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, "jane@example.com", got.Contact.Email)
}

func TestDispatchUnsupported(t *testing.T) {
	got, err := newTestPipeline().Dispatch(context.Background(), &resume.RawDocument{
		Bytes:    []byte("a,b,c"),
		FileName: "Jane Doe CV.xlsx",
	})

	require.NoError(t, err)
	assert.Equal(t, resume.FormatUnsupported, got.FormatUsed)
	assert.Equal(t, "Jane Doe CV", got.Name)
	assert.NotEmpty(t, got.Summary)
	assert.Empty(t, got.FullText)
}

func TestDispatchNil(t *testing.T) {
	_, err := newTestPipeline().Dispatch(context.Background(), nil)

	assert.ErrorIs(t, err, resume.ErrInvalidInput)
}

func TestDispatchTooLarge(t *testing.T) {
	p := newTestPipeline()
	p.MaxBytes = 8

	got, err := p.Dispatch(context.Background(), &resume.RawDocument{
		Bytes:    []byte(sampleText),
		FileName: "big.txt",
	})

	require.NoError(t, err)
	assert.Equal(t, resume.FormatText, got.FormatUsed)
	assert.Equal(t, "big", got.Name)
	assert.Contains(t, got.Summary, "upload limit")
	assert.Contains(t, got.ParseError, "limit is 8")
	assert.Empty(t, got.FullText)
}

func TestDispatchCaps(t *testing.T) {
	var b strings.Builder
	b.WriteString("Jane Doe\n\n")
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&b, "Work Experience %d\nEngineer at Company %d\n\n", i, i)
	}
	b.WriteString("Skills: ")
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&b, "skill%02d, ", i)
	}

	got, err := newTestPipeline().Dispatch(context.Background(), &resume.RawDocument{
		Bytes:    []byte(b.String()),
		FileName: "many.txt",
	})

	require.NoError(t, err)
	assert.Len(t, got.Experience, resume.MaxExperience)
	assert.Equal(t, "Work Experience 0", got.Experience[0].Title)
	assert.Len(t, got.Skills, resume.MaxSkills)
	assert.Equal(t, "skill00", got.Skills[0])
}

func TestDispatchIdempotent(t *testing.T) {
	p := newTestPipeline()
	docs := []*resume.RawDocument{
		{Bytes: []byte(sampleText), DeclaredMimeType: "text/plain", FileName: "jane.txt"},
		{Bytes: extracttest.Docx(strings.Split(sampleText, "\n")...), DeclaredMimeType: docxMime, FileName: "jane.docx"},
		{Bytes: []byte("junk"), FileName: "jane.pdf"},
	}
	for _, doc := range docs {
		first, err := p.Dispatch(context.Background(), doc)
		require.NoError(t, err)
		second, err := p.Dispatch(context.Background(), doc)
		require.NoError(t, err)
		assert.Equal(t, first, second, doc.FileName)
	}
}

func TestDispatchURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.pdf" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(sampleText))
	}))
	defer srv.Close()
	p := newTestPipeline()

	got, err := p.DispatchURL(context.Background(), srv.URL+"/files/jane.txt?sig=abc", "", "")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, resume.FormatText, got.FormatUsed)

	got, err = p.DispatchURL(context.Background(), srv.URL+"/missing.pdf", "application/pdf", "cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, resume.FormatPDF, got.FormatUsed)
	assert.Equal(t, "cv", got.Name)
	assert.Empty(t, got.FullText)
	assert.Contains(t, []string{extract.NotePDFUnparsed, extract.NoteNoTextLayer}, got.Summary)
}

func TestNormalize(t *testing.T) {
	c := resume.CandidateRecord{
		Name: "  ",
		Experience: []resume.ExperienceEntry{
			{Title: "a"}, {Title: "b", Company: "B"}, {Title: "c"}, {Title: "d"}, {Title: "e"}, {Title: "f"},
		},
		Education: []resume.EducationEntry{{Degree: "BSc"}},
		Skills:    []string{"Go", " Go ", "", "SQL", "Go"},
		Summary:   strings.Repeat("é", 600),
	}

	got := Normalize(c, "raw text", resume.FormatDocx)

	assert.Equal(t, resume.UnnamedResume, got.Name)
	require.Len(t, got.Experience, resume.MaxExperience)
	assert.Equal(t, resume.NotAvailable, got.Experience[0].Company)
	assert.Equal(t, "B", got.Experience[1].Company)
	assert.Equal(t, "e", got.Experience[4].Title)
	assert.Equal(t, resume.NotAvailable, got.Education[0].Institution)
	assert.Equal(t, []string{"Go", "SQL"}, got.Skills)
	assert.Equal(t, resume.MaxSummary, len([]rune(got.Summary)))
	assert.Equal(t, "raw text", got.FullText)
	assert.Equal(t, resume.FormatDocx, got.FormatUsed)
	assert.Equal(t, "", c.Experience[0].Company)
}

func TestNormalizeEmpty(t *testing.T) {
	got := Normalize(resume.CandidateRecord{}, "", resume.FormatPDF)

	assert.NotNil(t, got.Experience)
	assert.NotNil(t, got.Education)
	assert.NotNil(t, got.Skills)
	assert.Equal(t, resume.UnnamedResume, got.Name)
}

func TestFileTitle(t *testing.T) {
	tests := map[string]string{
		"jane_doe.pdf":          "jane_doe",
		"Jane.Doe.CV.docx":      "Jane.Doe.CV",
		"/tmp/uploads/cv.pdf":   "cv",
		`C:\docs\resume 2.docx`: "resume 2",
		".pdf":                  resume.DefaultFileTitle,
		"":                      resume.DefaultFileTitle,
		"noext":                 "noext",
	}
	for in, want := range tests {
		assert.Equal(t, want, FileTitle(in), in)
	}
}
