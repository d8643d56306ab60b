package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fpang/product-studio-cli/internal/auth"
	"github.com/fpang/product-studio-cli/internal/gemini"
	"github.com/fpang/product-studio-cli/internal/generator"
	"github.com/fpang/product-studio-cli/internal/imagecodec"
	"github.com/fpang/product-studio-cli/internal/state"
	"github.com/fpang/product-studio-cli/internal/store"
)

// stateApp wires the local pieces every command needs: the on-device
// key-value store, the asset store, and the persisted app state.
type stateApp struct {
	store *store.Store
	state *state.AppState
}

// capabilityApp adds the Gemini clients for commands that call the model.
type capabilityApp struct {
	stateApp
	gen  *generator.Generator
	text *gemini.TextClient
}

// newStateApp opens the state directory under the user's home.
func newStateApp() (*stateApp, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}

	kv, err := store.NewFileKV(filepath.Join(home, ".studio-cli", "state"), store.DefaultQuotaBytes)
	if err != nil {
		return nil, err
	}

	return &stateApp{
		store: store.New(kv),
		state: state.Load(kv),
	}, nil
}

// newCapabilityApp resolves the API key and builds the model clients on top
// of the state app.
func newCapabilityApp(ctx context.Context) (*capabilityApp, error) {
	base, err := newStateApp()
	if err != nil {
		return nil, err
	}

	apiKey, err := auth.GetAPIKey()
	if err != nil {
		return nil, err
	}

	text, err := gemini.NewTextClient(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	return &capabilityApp{
		stateApp: *base,
		gen:      generator.New(gemini.NewClient(apiKey)),
		text:     text,
	}, nil
}

// loadReferenceImages reads the given files into an ordered reference set.
func loadReferenceImages(paths []string) (*imagecodec.ReferenceSet, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("at least one reference image is required")
	}

	set := &imagecodec.ReferenceSet{}
	for i, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read reference image %s: %w", path, err)
		}
		mime := imagecodec.SniffMIME(data)
		set.Add(data, mime)
		imagecodec.LogReferenceAdded(i, data, mime)
	}
	return set, nil
}

// fail prints a single human-readable message and exits non-zero. Every
// surfaced pipeline error funnels through here so the user always sees one
// line, not a stack of wrapped causes.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
