package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"chatdesk/api"
	"chatdesk/config"
	appmodel "chatdesk/model"
	"chatdesk/storage"
	"chatdesk/ui"
)

const (
	Version = "v0.01.00"
	License = "Apache-2.0"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		showFatal("Configuration Error", fmt.Sprintf("Failed to load config:\n\n%v", err))
		os.Exit(1)
	}

	// Initialize debug logging after config is loaded
	config.InitDebugLog(cfg.DataDir())
	config.Log.Info().Str("version", Version).Str("api", cfg.APIURL()).Msg("starting")

	kb, err := config.LoadKeybindings(cfg.DataDir())
	if err != nil {
		config.Log.Warn().Err(err).Msg("keybindings unreadable, using defaults")
		kb = config.DefaultKeybindings()
	}
	if ok, reason := kb.Validate(); !ok {
		showFatal("Keybinding Error", reason)
		os.Exit(1)
	}

	enc, ok := unlockEncryption(cfg)
	if !ok {
		os.Exit(0)
	}

	authStore, err := storage.NewAuthStore(cfg.DataDir(), enc)
	if err != nil {
		showFatal("Storage Error", fmt.Sprintf("Failed to open session store:\n\n%v", err))
		os.Exit(1)
	}
	defer authStore.Close()

	client, err := api.NewClientFromConfig(cfg)
	if err != nil {
		showFatal("Configuration Error", fmt.Sprintf("Invalid API settings:\n\n%v", err))
		os.Exit(1)
	}

	dataModel := appmodel.NewModel(cfg, client, authStore, Version)

	p := tea.NewProgram(
		ui.NewAppView(dataModel, kb),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		config.Log.Error().Err(err).Msg("program exited with error")
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// unlockEncryption prepares token encryption, prompting for the SSH key
// passphrase until it works. ok is false when the user cancelled.
func unlockEncryption(cfg *config.Config) (*config.EncryptionManager, bool) {
	method := cfg.Security.Method
	if method == "" {
		method = config.SecurityNone
	}
	keyPath := config.ExpandPath(cfg.Security.SSHKeyPath)
	enc := config.NewEncryptionManager(method, keyPath)

	if method != config.SecuritySSHKey {
		if err := enc.Initialize(); err != nil {
			showFatal("Security Error", err.Error())
			os.Exit(1)
		}
		return enc, true
	}

	encrypted, err := config.IsSSHKeyEncrypted(keyPath)
	if err != nil {
		showFatal("Security Error", fmt.Sprintf("Cannot read SSH key %s:\n\n%v", keyPath, err))
		os.Exit(1)
	}

	if !encrypted {
		if err := enc.Initialize(); err != nil {
			showFatal("Security Error", err.Error())
			os.Exit(1)
		}
		return enc, true
	}

	errMsg := ""
	for {
		p := tea.NewProgram(ui.NewPassphraseModal(keyPath, errMsg), tea.WithAltScreen())
		final, err := p.Run()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		modal, ok := final.(ui.PassphraseModal)
		if !ok || modal.IsCancelled() {
			return nil, false
		}

		enc.SetPassphrase(modal.Passphrase())
		if err := enc.Initialize(); err != nil {
			config.Log.Debug().Str("component", "main").Err(err).Msg("passphrase rejected")
			errMsg = ui.IncorrectPassphraseError
			continue
		}
		return enc, true
	}
}

func showFatal(title, message string) {
	p := tea.NewProgram(ui.NewErrorModal(title, message), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", title, message)
	}
}
