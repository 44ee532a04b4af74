package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// WatchCmd regenerates on every change of the configuration file or the
// schema files it references.
type WatchCmd struct {
	Config string        `short:"c" default:"sqlmap.yaml" type:"path" help:"Configuration file"`
	Delay  time.Duration `default:"500ms" help:"Quiet period before regenerating"`
}

// Run executes the watch command until the context is cancelled.
func (c *WatchCmd) Run(ctx context.Context, g *Globals) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	logger, watched, err := c.generate(ctx, g)
	if err != nil {
		return err
	}
	if err := watch(watcher, watched); err != nil {
		return err
	}
	logger.WithField("files", len(watched)).Info("watching for changes")

	var (
		timer   = time.NewTimer(c.Delay)
		pending bool
	)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 || !watched[filepath.Clean(event.Name)] {
				continue
			}
			logger.WithField("file", event.Name).Debug("modified")
			pending = true
			timer.Reset(c.Delay)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WithError(err).Warn("watcher error")
		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			l, next, err := c.generate(ctx, g)
			if err != nil {
				logger.WithError(err).Error("generation failed")
				continue
			}
			logger = l
			// the configuration may reference new schema files.
			if err := watch(watcher, next); err != nil {
				logger.WithError(err).Warn("watch schema files")
			}
			watched = next
		}
	}
}

// generate runs one generation and returns the files it depends on.
func (c *WatchCmd) generate(ctx context.Context, g *Globals) (*logrus.Logger, map[string]bool, error) {
	s, logger, err := g.session(c.Config)
	if err != nil {
		return nil, nil, err
	}
	if _, err := s.Write(ctx); err != nil {
		return nil, nil, err
	}
	watched := map[string]bool{filepath.Clean(c.Config): true}
	for _, p := range s.File().Paths() {
		watched[filepath.Clean(p)] = true
	}
	return logger, watched, nil
}

// watch adds the directory of every file to the watcher.
func watch(w *fsnotify.Watcher, files map[string]bool) error {
	dirs := make(map[string]bool)
	for f := range files {
		dirs[filepath.Dir(f)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return err
		}
	}
	return nil
}
