package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the on-disk JSON layout of the configuration file.
type StructuredJSONConfig struct {
	App struct {
		IdentityAPIKey string `json:"identity_api_key"`
		IdentityURL    string `json:"identity_url"`
		TokenURL       string `json:"token_url"`
		Email          string `json:"email"`
		LogFile        string `json:"log_file"`
		Demo           bool   `json:"demo"`
	} `json:"app,omitempty"`

	Storage struct {
		Firestore struct {
			ProjectID       string `json:"project_id"`
			DatabaseID      string `json:"database_id"`
			CredentialsFile string `json:"credentials_file"`
		} `json:"firestore,omitempty"`

		Collections struct {
			Workspace string   `json:"workspace"`
			Gating    []string `json:"gating"`
		} `json:"collections,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
		TokenKey       string   `json:"token_key"`
	} `json:"server,omitempty"`

	Adapter struct {
		PresenceURL       string   `json:"presence_url"`
		CalendarURL       string   `json:"calendar_url"`
		CalendarRateLimit float64  `json:"calendar_rate_limit"`
		RequestTimeout    Duration `json:"request_timeout"`
	} `json:"adapter,omitempty"`

	Render struct {
		FrameInterval Duration `json:"frame_interval"`
	} `json:"render,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			IdentityAPIKey: jsonCfg.App.IdentityAPIKey,
			IdentityURL:    jsonCfg.App.IdentityURL,
			TokenURL:       jsonCfg.App.TokenURL,
			Email:          jsonCfg.App.Email,
			LogFile:        jsonCfg.App.LogFile,
			Demo:           jsonCfg.App.Demo,
		},
		Storage: Storage{
			Firestore: Firestore{
				ProjectID:       jsonCfg.Storage.Firestore.ProjectID,
				DatabaseID:      jsonCfg.Storage.Firestore.DatabaseID,
				CredentialsFile: jsonCfg.Storage.Firestore.CredentialsFile,
			},
			Collections: Collections{
				Workspace: jsonCfg.Storage.Collections.Workspace,
				Gating:    jsonCfg.Storage.Collections.Gating,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
			TokenKey:       jsonCfg.Server.TokenKey,
		},
		Adapter: Adapter{
			PresenceURL:       jsonCfg.Adapter.PresenceURL,
			CalendarURL:       jsonCfg.Adapter.CalendarURL,
			CalendarRateLimit: jsonCfg.Adapter.CalendarRateLimit,
			RequestTimeout:    time.Duration(jsonCfg.Adapter.RequestTimeout),
		},
		Render: Render{
			FrameInterval: time.Duration(jsonCfg.Render.FrameInterval),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "16ms", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
