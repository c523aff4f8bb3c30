package odm

import (
	"context"
	"crypto/sha1"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/google/uuid"
	"golang.org/x/text/encoding/unicode"

	"sonus/internal/services"
)

// Protocol constants the OverDrive license server expects. The hash secret is
// the published OverDrive Media Console secret; without it the acquisition
// endpoint rejects the request.
const (
	UserAgent     = "OverDrive Media Console"
	UserAgentLong = "OverDrive Media Console (unknown version)CFNetwork/976 Darwin/18.2.0 (x86_64)"
	omcVersion    = "1.2.0"
	osVersion     = "10.14.2"
	hashSecret    = "ELOSNOC*AIDEM*EVIRDREVO"
)

// ErrAlreadyReturned reports an early-return attempt on a loan the service
// no longer holds.
var ErrAlreadyReturned = errors.New("loan already returned")

// License is an acquired OverDrive license token plus the client identifier
// the download endpoints require in request headers.
type License struct {
	Raw      string
	ClientID string
}

// Hash computes the OverDrive acquisition hash for a client identifier:
// base64(sha1(utf16le("ClientID|OMC|OS|secret"))).
func Hash(clientID string) (string, error) {
	raw := strings.Join([]string{clientID, omcVersion, osVersion, hashSecret}, "|")
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().String(raw)
	if err != nil {
		return "", fmt.Errorf("encode hash input: %w", err)
	}
	sum := sha1.Sum([]byte(encoded))
	return base64.StdEncoding.EncodeToString(sum[:]), nil
}

// LoadOrCreateClientID returns the persistent client identifier, generating
// and storing a fresh one on first use. OverDrive ties licenses to the
// client identifier, so it must stay stable across runs.
func LoadOrCreateClientID(path string) (string, error) {
	if content, err := os.ReadFile(path); err == nil {
		if id := strings.TrimSpace(string(content)); id != "" {
			return id, nil
		}
	}
	id := strings.ToUpper(uuid.New().String())
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create client id directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(id), 0o600); err != nil {
		return "", fmt.Errorf("store client id: %w", err)
	}
	return id, nil
}

// Acquire obtains the license for a manifest, caching it next to the ODM
// file so repeated runs reuse the same token.
func Acquire(ctx context.Context, client *http.Client, m *Manifest, clientIDPath string) (License, error) {
	cachePath := m.Path + ".license"

	raw := ""
	if content, err := os.ReadFile(cachePath); err == nil && strings.TrimSpace(string(content)) != "" {
		raw = string(content)
	} else {
		fetched, err := request(ctx, client, m, clientIDPath)
		if err != nil {
			return License{}, err
		}
		raw = fetched
		if err := os.WriteFile(cachePath, []byte(raw), 0o600); err != nil {
			return License{}, fmt.Errorf("cache license: %w", err)
		}
	}

	clientID, err := clientIDFromLicense(raw)
	if err != nil {
		return License{}, err
	}
	return License{Raw: raw, ClientID: clientID}, nil
}

func request(ctx context.Context, client *http.Client, m *Manifest, clientIDPath string) (string, error) {
	if m.AcquisitionURL == "" {
		return "", services.Wrap(services.ErrValidation, "license", "acquire", "manifest has no acquisition URL", nil)
	}

	clientID, err := LoadOrCreateClientID(clientIDPath)
	if err != nil {
		return "", err
	}
	hash, err := Hash(clientID)
	if err != nil {
		return "", err
	}

	query := url.Values{}
	query.Set("MediaID", m.MediaID)
	query.Set("ClientID", clientID)
	query.Set("OMC", omcVersion)
	query.Set("OS", osVersion)
	query.Set("Hash", hash)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.AcquisitionURL+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build license request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "license", "acquire", "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", services.Wrap(services.ErrValidation, "license", "acquire",
			fmt.Sprintf("server returned %s", resp.Status), nil)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read license response: %w", err)
	}
	return string(body), nil
}

// clientIDFromLicense extracts the signed ClientID from the license XML. The
// document is namespaced, so matching is by local element name.
func clientIDFromLicense(raw string) (string, error) {
	doc, err := xmlquery.Parse(strings.NewReader(raw))
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "license", "parse", "", err)
	}
	node := xmlquery.FindOne(doc, "//*[local-name()='SignedInfo']/*[local-name()='ClientID']")
	if node == nil {
		return "", services.Wrap(services.ErrValidation, "license", "parse", "missing ClientID element", nil)
	}
	id := strings.TrimSpace(node.InnerText())
	if id == "" {
		return "", services.Wrap(services.ErrValidation, "license", "parse", "empty ClientID element", nil)
	}
	return id, nil
}

// EarlyReturn asks the service to release the loan. Returning an already
// released loan yields ErrAlreadyReturned.
func EarlyReturn(ctx context.Context, client *http.Client, m *Manifest) error {
	if m.EarlyReturnURL == "" {
		return services.Wrap(services.ErrValidation, "return", "early return", "manifest has no EarlyReturnURL", nil)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.EarlyReturnURL, nil)
	if err != nil {
		return fmt.Errorf("build return request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransient, "return", "early return", "", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return ErrAlreadyReturned
	case resp.StatusCode >= 300:
		return services.Wrap(services.ErrValidation, "return", "early return",
			fmt.Sprintf("server returned %s", resp.Status), nil)
	}
	return nil
}
