package odm

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	"sonus/internal/services"
)

// Part describes one downloadable audio part of a loan.
type Part struct {
	Number    int
	Filename  string
	SizeBytes int64
	Name      string
	Duration  string
}

// Manifest is a parsed OverDrive ODM loan descriptor.
type Manifest struct {
	Path           string
	MediaID        string
	AcquisitionURL string
	EarlyReturnURL string
	BaseURL        string
	Title          string
	Author         string // ';'-joined author list
	CoverURL       string
	Parts          []Part
}

// metadataIsland matches the CDATA-wrapped metadata document embedded in the
// ODM payload. It is not well-formed relative to the outer document, so it is
// cut out and parsed separately.
var metadataIsland = regexp.MustCompile(`(?s)<Metadata>.*</Metadata>`)

// bareAmpersand escapes standalone ampersands the OverDrive service emits
// unencoded inside metadata text.
var bareAmpersand = regexp.MustCompile(` & `)

// ParseFile reads and validates an ODM manifest from disk.
func ParseFile(path string) (*Manifest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "odm", "read manifest", path, err)
	}
	m, err := parse(string(content))
	if err != nil {
		return nil, err
	}
	m.Path = path
	return m, nil
}

func parse(content string) (*Manifest, error) {
	if !strings.Contains(content, "<OverDriveMedia") {
		return nil, services.Wrap(services.ErrValidation, "odm", "verify manifest", "not an OverDriveMedia document", nil)
	}

	doc, err := xmlquery.Parse(strings.NewReader(content))
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "odm", "parse manifest", "", err)
	}

	m := &Manifest{}
	if root := xmlquery.FindOne(doc, "//OverDriveMedia"); root != nil {
		m.MediaID = root.SelectAttr("id")
	}
	if node := xmlquery.FindOne(doc, "//License/AcquisitionUrl"); node != nil {
		m.AcquisitionURL = strings.TrimSpace(node.InnerText())
	}
	if node := xmlquery.FindOne(doc, "//EarlyReturnURL"); node != nil {
		m.EarlyReturnURL = strings.TrimSpace(node.InnerText())
	}

	if protocol := xmlquery.FindOne(doc, "//Protocol[@method='download']"); protocol != nil {
		m.BaseURL = protocol.SelectAttr("baseurl")
	}
	if m.BaseURL == "" {
		return nil, services.Wrap(services.ErrValidation, "odm", "parse manifest", "missing download protocol base URL", nil)
	}

	partNodes := xmlquery.Find(doc, "//Part")
	for _, node := range partNodes {
		part := Part{
			Filename: node.SelectAttr("filename"),
			Name:     node.SelectAttr("name"),
			Duration: node.SelectAttr("duration"),
		}
		part.Number, _ = strconv.Atoi(node.SelectAttr("number"))
		part.SizeBytes, _ = strconv.ParseInt(node.SelectAttr("filesize"), 10, 64)
		m.Parts = append(m.Parts, part)
	}
	if parts := xmlquery.FindOne(doc, "//Parts"); parts != nil {
		expected, _ := strconv.Atoi(parts.SelectAttr("count"))
		if expected != len(m.Parts) {
			return nil, services.Wrap(services.ErrValidation, "odm", "parse manifest",
				fmt.Sprintf("expecting %d parts, found %d part records", expected, len(m.Parts)), nil)
		}
	}
	if len(m.Parts) == 0 {
		return nil, services.Wrap(services.ErrValidation, "odm", "parse manifest", "no part records", nil)
	}

	if err := m.parseMetadata(content); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manifest) parseMetadata(content string) error {
	island := metadataIsland.FindString(content)
	if island == "" {
		return services.Wrap(services.ErrValidation, "odm", "parse metadata", "missing Metadata island", nil)
	}
	island = bareAmpersand.ReplaceAllString(island, " &amp; ")

	meta, err := xmlquery.Parse(strings.NewReader(island))
	if err != nil {
		return services.Wrap(services.ErrValidation, "odm", "parse metadata", "", err)
	}

	if node := xmlquery.FindOne(meta, "//Title"); node != nil {
		m.Title = strings.TrimSpace(node.InnerText())
	}
	if node := xmlquery.FindOne(meta, "//CoverUrl"); node != nil {
		m.CoverURL = strings.TrimSpace(node.InnerText())
	}
	m.Author = creatorsByRole(meta, "author")
	if m.Author == "" {
		// Editors stand in when the feed lists no authors.
		m.Author = creatorsByRole(meta, "editor")
	}
	if m.Title == "" || m.Author == "" {
		return services.Wrap(services.ErrValidation, "odm", "parse metadata", "missing title or creator", nil)
	}
	return nil
}

func creatorsByRole(meta *xmlquery.Node, role string) string {
	names := make([]string, 0, 2)
	for _, node := range xmlquery.Find(meta, "//Creator") {
		if strings.Contains(strings.ToLower(node.SelectAttr("role")), role) {
			if name := strings.TrimSpace(node.InnerText()); name != "" {
				names = append(names, name)
			}
		}
	}
	return strings.Join(names, ";")
}

// Authors returns the individual author names.
func (m *Manifest) Authors() []string {
	if m.Author == "" {
		return nil
	}
	return strings.Split(m.Author, ";")
}

// PartURL resolves the download URL for a part.
func (m *Manifest) PartURL(part Part) string {
	return strings.TrimRight(m.BaseURL, "/") + "/" + part.Filename
}

// TotalSizeBytes sums the declared part sizes.
func (m *Manifest) TotalSizeBytes() int64 {
	var total int64
	for _, part := range m.Parts {
		total += part.SizeBytes
	}
	return total
}
