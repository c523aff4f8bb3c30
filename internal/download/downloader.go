package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"sonus/internal/logging"
	"sonus/internal/odm"
	"sonus/internal/organizer"
	"sonus/internal/services"
	"sonus/internal/textutil"
)

// Downloader fetches the audio parts of a loan into the library layout.
type Downloader struct {
	client   *http.Client
	logger   *slog.Logger
	workers  int
	progress bool
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithClient overrides the HTTP client.
func WithClient(client *http.Client) Option {
	return func(d *Downloader) {
		if client != nil {
			d.client = client
		}
	}
}

// WithWorkers bounds concurrent part downloads.
func WithWorkers(workers int) Option {
	return func(d *Downloader) {
		if workers > 0 {
			d.workers = workers
		}
	}
}

// WithProgress toggles the interactive progress bar.
func WithProgress(enabled bool) Option {
	return func(d *Downloader) {
		d.progress = enabled
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Downloader) {
		if logger != nil {
			d.logger = logging.NewComponentLogger(logger, "download")
		}
	}
}

// New constructs a Downloader using defaults.
func New(opts ...Option) *Downloader {
	d := &Downloader{
		client:   http.DefaultClient,
		logger:   logging.NewNop(),
		workers:  4,
		progress: true,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DownloadBook fetches every part of the manifest into
// {root}/{author}/{title} and returns that directory. Parts already present
// with the expected size are skipped, so interrupted downloads resume.
func (d *Downloader) DownloadBook(ctx context.Context, m *odm.Manifest, lic odm.License, root string) (string, error) {
	// Manifest authors are ';'-joined; rewriting to '/' matches the artist
	// tag convention, and the layout then keys on the first author only.
	dir, err := organizer.EnsureBookDir(root, strings.ReplaceAll(m.Author, ";", "/"), m.Title)
	if err != nil {
		return "", err
	}
	d.logger.Info("downloading audiobook",
		logging.Args(
			logging.String("title", m.Title),
			logging.String("author", m.Author),
			logging.Int("parts", len(m.Parts)),
			logging.String("dir", dir),
		)...)

	if m.CoverURL != "" {
		if err := d.downloadCover(ctx, m, dir); err != nil {
			// Cover art is decorative; a failed fetch never blocks the book.
			d.logger.Warn("cover download failed", logging.Args(logging.Error(err))...)
		}
	}

	bar := d.newBar(len(m.Parts))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(d.workers)
	for _, part := range m.Parts {
		group.Go(func() error {
			if err := d.downloadPart(groupCtx, m, lic, part, dir); err != nil {
				return err
			}
			_ = bar.Add(1)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return "", err
	}
	_ = bar.Finish()
	return dir, nil
}

func (d *Downloader) downloadPart(ctx context.Context, m *odm.Manifest, lic odm.License, part odm.Part, dir string) error {
	target := filepath.Join(dir, PartFileName(m.Title, part.Number))
	if info, err := os.Stat(target); err == nil && info.Size() == part.SizeBytes {
		d.logger.Debug("part already downloaded", logging.Args(logging.String("file", target))...)
		return nil
	}

	d.logger.Debug("downloading part",
		logging.Args(
			logging.Int("number", part.Number),
			logging.String("filename", part.Filename),
			logging.Int64("size", part.SizeBytes),
		)...)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.PartURL(part), nil)
	if err != nil {
		return fmt.Errorf("build part request: %w", err)
	}
	req.Header.Set("License", lic.Raw)
	req.Header.Set("ClientID", lic.ClientID)
	req.Header.Set("User-Agent", odm.UserAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransient, "download", "fetch part", part.Filename, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return services.Wrap(services.ErrTransient, "download", "fetch part",
			fmt.Sprintf("%s: server returned %s", part.Filename, resp.Status), nil)
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create part file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("write part file: %w", err)
	}
	return out.Close()
}

func (d *Downloader) downloadCover(ctx context.Context, m *odm.Manifest, dir string) error {
	target := filepath.Join(dir, textutil.SanitizeFileName(m.Title)+".jpg")
	if _, err := os.Stat(target); err == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.CoverURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", odm.UserAgentLong)

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cover fetch returned %s", resp.Status)
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		return err
	}
	return out.Close()
}

func (d *Downloader) newBar(parts int) *progressbar.ProgressBar {
	if !d.progress {
		return progressbar.DefaultSilent(int64(parts))
	}
	return progressbar.NewOptions(parts,
		progressbar.OptionSetDescription("Downloading parts"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

// PartFileName is the on-disk name of a downloaded part. The title is
// sanitized so path-hostile characters cannot escape the book directory.
func PartFileName(title string, number int) string {
	return fmt.Sprintf("%s-part%02d.mp3", textutil.SanitizeFileName(title), number)
}
