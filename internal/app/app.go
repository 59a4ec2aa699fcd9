package app

import (
	"net/http"

	"github.com/joho/godotenv"

	"cloudlab-go/internal/awsclient"
	"cloudlab-go/internal/compute"
	"cloudlab-go/internal/config"
	"cloudlab-go/internal/logger"
	"cloudlab-go/internal/mlmodel"
	"cloudlab-go/internal/pipeline"
	"cloudlab-go/internal/storage"
	"cloudlab-go/internal/transcription"
)

// App is the process-wide wiring: configuration and AWS clients resolved once at
// startup, then handed to every component.
type App struct {
	Config        *config.Config
	Log           *logger.Logger
	Clients       *awsclient.Clients
	Transcription *transcription.Client
	Storage       *storage.S3
	Inventory     *compute.Inventory
	Models        *mlmodel.Registrar
}

// Load reads .env (if present) and the environment, then builds the clients.
func Load() (*App, error) {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	clients, err := awsclient.New(cfg.AWSRegion, cfg.AWSProfile)
	if err != nil {
		return nil, err
	}
	return New(cfg, logger.New(), clients), nil
}

// New wires components from already-built parts.
func New(cfg *config.Config, log *logger.Logger, clients *awsclient.Clients) *App {
	return &App{
		Config:        cfg,
		Log:           log,
		Clients:       clients,
		Transcription: transcription.New(clients.Transcribe, &http.Client{Timeout: cfg.HTTPTimeout}, log),
		Storage:       storage.NewS3(clients.S3),
		Inventory:     compute.NewInventory(clients.EC2),
		Models:        mlmodel.NewRegistrar(clients.SageMaker, log),
	}
}

func (a *App) JobSettings() pipeline.JobSettings {
	return pipeline.JobSettings{
		LanguageCode:  a.Config.LanguageCode,
		MediaFormat:   a.Config.MediaFormat,
		JobNameMaxLen: a.Config.JobNameMaxLen,
	}
}

func (a *App) Ingest() *pipeline.Ingest {
	return pipeline.NewIngest(a.Transcription, a.JobSettings(), a.Log)
}

// Complete needs TRANSCRIPT_BUCKET.
func (a *App) Complete() (*pipeline.Complete, error) {
	if err := a.Config.RequireBucket(); err != nil {
		return nil, err
	}
	return pipeline.NewComplete(a.Transcription, a.Transcription, a.Storage, a.Config.TranscriptBucket, a.Log), nil
}
