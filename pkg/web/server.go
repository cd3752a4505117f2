package web

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/go-go-golems/mrcool/pkg/chat"
	"github.com/go-go-golems/mrcool/pkg/notice"
	"github.com/go-go-golems/mrcool/pkg/render"
)

//go:embed static/index.html
var staticFS embed.FS

const (
	shutdownTimeout = 10 * time.Second
	busySubmitText  = "Wait for the reply before sending another prompt."
)

// Config controls the widget server.
type Config struct {
	Addr             string
	AssistantName    string
	MaxPromptLength  int
	SuggestedPrompts []string
	NoticeDuration   time.Duration
}

// Server serves the chat widget and one chat session per websocket
// connection. Sessions live exactly as long as their connection.
type Server struct {
	cfg      Config
	asker    chat.Asker
	renderer *render.HTMLRenderer
	upgrader websocket.Upgrader
	mux      *http.ServeMux
	index    []byte
}

func NewServer(asker chat.Asker, cfg Config) (*Server, error) {
	if asker == nil {
		return nil, errors.New("asker is nil")
	}
	if cfg.AssistantName == "" {
		cfg.AssistantName = render.DefaultAssistantName
	}
	renderer, err := render.NewHTMLRenderer(cfg.AssistantName)
	if err != nil {
		return nil, err
	}
	index, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		return nil, errors.Wrap(err, "read embedded index")
	}

	s := &Server{
		cfg:      cfg,
		asker:    asker,
		renderer: renderer,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		mux:      http.NewServeMux(),
		index:    index,
	}
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	s.mux.HandleFunc("GET /ws", s.handleWS)
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run serves on cfg.Addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		log.Info().Str("addr", s.cfg.Addr).Msg("starting widget server")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "listen")
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
			return err
		}
		log.Info().Msg("server shutdown complete")
		return nil
	})
	return eg.Wait()
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(s.index)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	logger := log.With().Str("component", "web").Str("remote", r.RemoteAddr).Logger()
	out := newConnWriter(conn, logger)
	defer out.Close()

	presenter := &connPresenter{
		out:            out,
		renderer:       s.renderer,
		noticeDuration: s.cfg.NoticeDuration,
		logger:         logger,
	}
	session := chat.NewSession(s.asker, presenter)
	logger = logger.With().Str("session_id", session.ID).Logger()
	logger.Info().Msg("websocket connected")

	var wg sync.WaitGroup
	defer wg.Wait()

	out.Send(helloFrame{
		Type:             frameHello,
		SessionID:        session.ID,
		AssistantName:    s.cfg.AssistantName,
		MaxPromptLength:  s.cfg.MaxPromptLength,
		SuggestedPrompts: s.cfg.SuggestedPrompts,
	})

	// The request context stays live until this handler returns, which is
	// after wg.Wait, so an in-flight prompt is never cancelled by a disconnect.
	ctx := r.Context()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn().Err(err).Msg("websocket read failed")
			} else {
				logger.Info().Msg("websocket disconnected")
			}
			return
		}

		var in inboundFrame
		if err := json.Unmarshal(data, &in); err != nil {
			out.Send(errorFrame{Type: frameError, Error: "malformed frame"})
			continue
		}

		switch in.Type {
		case frameSubmit:
			if s.tooLong(strings.TrimSpace(in.Prompt)) {
				presenter.OnNotice(notice.Notice{
					Kind: notice.KindValidation,
					Text: fmt.Sprintf("Prompt is too long (max %d characters).", s.cfg.MaxPromptLength),
				})
				continue
			}
			wg.Add(1)
			go func(prompt string) {
				defer wg.Done()
				err := session.Submit(ctx, prompt)
				switch {
				case errors.Is(err, chat.ErrBusy):
					out.Send(errorFrame{Type: frameError, Error: busySubmitText, Prompt: prompt})
				case err != nil:
					logger.Debug().Err(err).Msg("submit finished with error")
				}
			}(in.Prompt)

		case frameClear:
			if err := session.ResetConversation(); err != nil {
				out.Send(errorFrame{Type: frameError, Error: "cannot clear while waiting for a reply"})
			}

		default:
			out.Send(errorFrame{Type: frameError, Error: fmt.Sprintf("unknown frame type %q", in.Type)})
		}
	}
}

func (s *Server) tooLong(prompt string) bool {
	return s.cfg.MaxPromptLength > 0 && utf8.RuneCountInString(prompt) > s.cfg.MaxPromptLength
}
