package events

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	applog "github.com/evently/evently/internal/log"
)

type fetchProgressMsg struct {
	bytesDownloaded int64
	totalBytes      int64
	speed           float64
}

type fetchCompleteMsg struct {
	fileSize int64
	modTime  time.Time
	filePath string
	count    int
	err      error
}

type fetchModel struct {
	url        string
	destPath   string
	client     *http.Client
	bar        progress.Model
	downloaded int64
	total      int64
	speed      float64
	done       bool
	result     *fetchCompleteMsg
	progressCh chan fetchProgressMsg
	completeCh chan fetchCompleteMsg
}

func newFetchModel(url, destPath string, client *http.Client) *fetchModel {
	return &fetchModel{
		url:        url,
		destPath:   destPath,
		client:     client,
		bar:        progress.New(progress.WithDefaultGradient(), progress.WithWidth(50)),
		progressCh: make(chan fetchProgressMsg, 10),
		completeCh: make(chan fetchCompleteMsg, 1),
	}
}

func (m *fetchModel) Init() tea.Cmd {
	return tea.Batch(m.start, m.listen)
}

func (m *fetchModel) listen() tea.Msg {
	select {
	case msg := <-m.progressCh:
		return msg
	case msg := <-m.completeCh:
		return msg
	}
}

func (m *fetchModel) start() tea.Msg {
	go func() {
		m.completeCh <- download(m.client, m.url, m.destPath, func(done, total int64, speed float64) {
			select {
			case m.progressCh <- fetchProgressMsg{bytesDownloaded: done, totalBytes: total, speed: speed}:
			default:
			}
		})
	}()
	return nil
}

func (m *fetchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.done {
			return m, tea.Quit
		}
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case fetchCompleteMsg:
		m.done = true
		m.result = &msg
		return m, nil
	case fetchProgressMsg:
		m.downloaded = msg.bytesDownloaded
		m.total = msg.totalBytes
		m.speed = msg.speed
		return m, m.listen
	}
	return m, nil
}

func (m *fetchModel) View() string {
	if m.done {
		r := m.result
		if r.err != nil {
			return fmt.Sprintf("Download failed\n\n%v\n\nYou can fetch the file by hand:\n  1. open %s\n  2. save it as %s\n\nPress any key to exit...\n",
				r.err, m.url, m.destPath)
		}
		return fmt.Sprintf("Download complete\n\nsize:    %s\nupdated: %s\nsaved:   %s\nevents:  %d\n\nPress any key to exit...\n",
			formatBytes(r.fileSize), r.modTime.Format("2006-01-02 15:04:05"), r.filePath, r.count)
	}

	var percent float64
	info := formatBytes(m.downloaded)
	if m.total > 0 {
		percent = float64(m.downloaded) / float64(m.total)
		if percent > 1 {
			percent = 1
		}
		info = fmt.Sprintf("%s / %s  %s  %.1f%%", info, formatBytes(m.total), formatSpeed(m.speed), percent*100)
	} else if m.speed > 0 {
		info = fmt.Sprintf("%s  %s", info, formatSpeed(m.speed))
	}
	return fmt.Sprintf("Downloading events from %s\n\n%s\n%s\n\nPress Ctrl+C to cancel\n", m.url, m.bar.ViewAs(percent), info)
}

// download copies url into destPath. Remote sources are JSON; the body is
// parsed before it replaces the cache.
// onProgress is called periodically while bytes arrive.
func download(client *http.Client, url, destPath string, onProgress func(done, total int64, speed float64)) fetchCompleteMsg {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fetchCompleteMsg{err: fmt.Errorf("failed to create directory: %w", err)}
	}
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Get(url)
	if err != nil {
		return fetchCompleteMsg{err: fmt.Errorf("failed to start download: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fetchCompleteMsg{err: fmt.Errorf("HTTP %s", resp.Status)}
	}

	// Write to a sibling temp file so a failed download never clobbers the cache.
	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".events-*.tmp")
	if err != nil {
		return fetchCompleteMsg{err: fmt.Errorf("failed to create file: %w", err)}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	var downloaded int64
	startTime := time.Now()
	stop := make(chan struct{})
	if onProgress != nil {
		go func() {
			ticker := time.NewTicker(100 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-stop:
					return
				case <-ticker.C:
					n := atomic.LoadInt64(&downloaded)
					if n > 0 {
						onProgress(n, resp.ContentLength, float64(n)/time.Since(startTime).Seconds())
					}
				}
			}
		}()
	}

	reader := io.TeeReader(resp.Body, &progressWriter{onWrite: func(n int) {
		atomic.AddInt64(&downloaded, int64(n))
	}})
	_, err = io.Copy(tmp, reader)
	close(stop)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fetchCompleteMsg{err: fmt.Errorf("failed to write file: %w", err)}
	}

	data, err := os.ReadFile(tmpName)
	if err != nil {
		return fetchCompleteMsg{err: fmt.Errorf("failed to read download: %w", err)}
	}
	evs, err := Parse(FormatJSON, data)
	if err != nil {
		return fetchCompleteMsg{err: fmt.Errorf("downloaded file is not a valid events file: %w", err)}
	}

	if err := os.Rename(tmpName, destPath); err != nil {
		return fetchCompleteMsg{err: fmt.Errorf("failed to save file: %w", err)}
	}
	info, err := os.Stat(destPath)
	if err != nil {
		return fetchCompleteMsg{err: fmt.Errorf("failed to stat file: %w", err)}
	}
	applog.Info("events downloaded", "url", url, "path", destPath, "bytes", info.Size(), "count", len(evs))
	return fetchCompleteMsg{
		fileSize: info.Size(),
		modTime:  info.ModTime(),
		filePath: destPath,
		count:    len(evs),
	}
}

type progressWriter struct {
	onWrite func(int)
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	if pw.onWrite != nil {
		pw.onWrite(len(p))
	}
	return len(p), nil
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func formatSpeed(speed float64) string {
	return fmt.Sprintf("%s/s", formatBytes(int64(speed)))
}

// Fetch downloads url into the events cache, showing a progress view.
func Fetch(url string) error {
	if url == "" {
		return fmt.Errorf("no source URL configured")
	}
	cachePath, err := CachePath()
	if err != nil {
		return err
	}

	m := newFetchModel(url, cachePath, http.DefaultClient)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	if m.result == nil {
		return fmt.Errorf("download cancelled")
	}
	return m.result.err
}
