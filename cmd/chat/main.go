package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smilelifes/ai-weather-chat/internal/chat"
	"github.com/smilelifes/ai-weather-chat/internal/config"
	"github.com/smilelifes/ai-weather-chat/internal/speech"
	"github.com/smilelifes/ai-weather-chat/internal/ui"
)

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// stdout belongs to the TUI; logs go to ~/.weatherchat/chat.log
	if logFile, err := openLogFile(); err == nil {
		defer logFile.Close()
		log.SetOutput(logFile)
	} else {
		log.SetOutput(io.Discard)
	}

	log.Printf("INFO: starting chat client, server %s", cfg.ServerURL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Recognition is always Korean; only the listening window is configurable.
	recOpts := speech.DefaultRecognitionOptions()
	recOpts.MaxDuration = cfg.Speech.MaxListen

	ctrlCfg := chat.ControllerConfig{
		Pipeline:           chat.NewHTTPClient(cfg.ServerURL, cfg.RequestTimeout),
		RecognitionOptions: recOpts,
	}

	// Probe speech capabilities once; missing engines only hide their controls
	if speech.RecognitionAvailable(cfg.Speech.DeepgramAPIKey, cfg.Speech.Recorder) {
		source := speech.NewRecorderSource(cfg.Speech.Recorder)
		ctrlCfg.Recognizer = speech.NewDeepgramRecognizer(cfg.Speech.DeepgramAPIKey, cfg.Speech.DeepgramModel, source)
		log.Printf("INFO: speech recognition enabled (%s)", cfg.Speech.Recorder)
	} else {
		log.Printf("INFO: speech recognition unavailable")
	}

	var speaker *speech.Speaker
	if speech.SynthesisAvailable(cfg.Speech.ElevenLabsAPIKey, cfg.Speech.Player) {
		sink := speech.NewPlayerSink(cfg.Speech.Player)
		synth := speech.NewElevenLabsSynthesizer(cfg.Speech.ElevenLabsAPIKey, cfg.Speech.ElevenLabsVoiceID, cfg.Speech.ElevenLabsModel, sink)
		speaker = speech.NewSpeaker(synth)
		ctrlCfg.Speaker = speaker
		log.Printf("INFO: speech synthesis enabled (%s)", cfg.Speech.Player)
	} else {
		log.Printf("INFO: speech synthesis unavailable")
	}

	ctrl := chat.NewController(ctrlCfg)

	p := tea.NewProgram(ui.New(ctx, ctrl), tea.WithAltScreen())
	ctrl.SetObserver(ui.Observer(p.Send))

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running chat: %v\n", err)
		os.Exit(1)
	}

	if speaker != nil {
		speaker.Cancel()
	}
}

func openLogFile() (*os.File, error) {
	dir, err := config.ClientDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "chat.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
