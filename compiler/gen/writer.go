package gen

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"

	"github.com/syssam/sqlmap/schema"
)

// File is a rendered output file.
type File struct {
	Name string // relative to the target directory
	Data []byte
}

// Writer renders the artifacts of a run and writes them with parallel
// workers.
type Writer struct {
	cfg     *Config
	workers int

	mu      sync.Mutex
	metrics *WriterMetrics
}

// WriterMetrics tracks written output.
type WriterMetrics struct {
	FilesGenerated int
	TotalBytes     int64
}

// NewWriter returns a writer for cfg.
func NewWriter(cfg *Config) *Writer {
	w := &Writer{cfg: cfg, workers: cfg.Workers, metrics: &WriterMetrics{}}
	if w.workers <= 0 {
		w.workers = 1
	}
	return w
}

// Metrics returns the write metrics.
func (w *Writer) Metrics() *WriterMetrics {
	return w.metrics
}

// fileTask represents a single file generation task.
type fileTask struct {
	name   string
	render func() ([]byte, error)
	gosrc  bool
}

func (w *Writer) tasks(res *Result) []fileTask {
	var files []fileTask
	for _, a := range res.Tables {
		if len(a.Classes) > 0 {
			files = append(files, fileTask{
				name:  schema.Snake(a.Table.ModelName) + ".go",
				gosrc: true,
				render: func() ([]byte, error) {
					return renderGo(RenderClasses(w.cfg, a.Classes))
				},
			})
		}
		if a.Interface != nil {
			files = append(files, fileTask{
				name:  schema.Snake(a.Interface.Name) + ".go",
				gosrc: true,
				render: func() ([]byte, error) {
					return renderGo(RenderInterface(w.cfg, a.Interface))
				},
			})
		}
		if a.Document != nil {
			files = append(files, fileTask{
				name: a.Document.Name + ".xml",
				render: func() ([]byte, error) {
					return EncodeDocument(a.Document)
				},
			})
		}
	}
	for _, i := range res.Interfaces {
		files = append(files, fileTask{
			name:  schema.Snake(i.Name) + ".go",
			gosrc: true,
			render: func() ([]byte, error) {
				return renderGo(RenderInterface(w.cfg, i))
			},
		})
	}
	return files
}

// Render renders every file in memory, sorted by name.
func (w *Writer) Render(ctx context.Context, res *Result) ([]*File, error) {
	var (
		mu    sync.Mutex
		files []*File
	)
	err := w.run(ctx, res, func(name string, data []byte) error {
		mu.Lock()
		files = append(files, &File{Name: name, Data: data})
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Write renders every file and writes it under the target directory.
func (w *Writer) Write(ctx context.Context, res *Result) error {
	if w.cfg.Target == "" {
		return NewConfigError("Target", nil, "target directory cannot be empty")
	}
	if err := os.MkdirAll(w.cfg.Target, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return w.run(ctx, res, func(name string, data []byte) error {
		path := filepath.Join(w.cfg.Target, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return NewGenerationError("write", name, "", err)
		}
		w.mu.Lock()
		w.metrics.FilesGenerated++
		w.metrics.TotalBytes += int64(len(data))
		w.mu.Unlock()
		return nil
	})
}

func (w *Writer) run(ctx context.Context, res *Result, sink func(string, []byte) error) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for _, f := range w.tasks(res) {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			data, err := w.generateFile(f)
			if err != nil {
				return err
			}
			return sink(f.name, data)
		})
	}
	return eg.Wait()
}

// generateFile renders and checks a single file.
func (w *Writer) generateFile(f fileTask) ([]byte, error) {
	data, err := f.render()
	if err != nil {
		return nil, NewGenerationError("render", f.name, "", err)
	}
	if !f.gosrc {
		if err := VerifyDocument(data); err != nil {
			return nil, NewGenerationError("render", f.name, "", err)
		}
		return data, nil
	}
	formatted, err := imports.Process(filepath.Join(w.cfg.Target, f.name), data, nil)
	if err != nil {
		return nil, NewGenerationError("format", f.name, "", err)
	}
	return formatted, nil
}

func renderGo(f interface{ Render(io.Writer) error }) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
