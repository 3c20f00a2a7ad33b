// Package remote implements the remote view service: a small HTTP surface
// that lets an operator fetch screenshots and inject input events over a
// websocket. It is the moral equivalent of the VNC gateway of classic
// compositors, with JSON instead of RFB, and is disabled unless an
// address is configured.
package remote

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	logging "github.com/sirupsen/logrus"

	"github.com/perceptia/perceptia/coordination"
	"github.com/perceptia/perceptia/pkg/bus"
	"github.com/perceptia/perceptia/pkg/core"
	"github.com/perceptia/perceptia/pkg/geom"
)

const screenshotTimeout = 2 * time.Second

// Service exposes the remote view endpoints.
type Service struct {
	signaler    *bus.Signaler
	coordinator *coordination.Coordinator
	log         *logging.Entry
	upgrader    websocket.Upgrader

	// shotMu serializes screenshot requests; done receives the
	// SCREENSHOT_DONE signal.
	shotMu sync.Mutex
	done   *bus.Receiver
}

// NewService constructs the service and subscribes it to screenshot
// completion.
func NewService(signaler *bus.Signaler, coordinator *coordination.Coordinator) *Service {
	s := &Service{
		signaler:    signaler,
		coordinator: coordinator,
		log:         logging.WithField("component", "remote"),
		done:        bus.NewReceiver(),
	}
	signaler.Subscribe(core.SignalScreenshotDone, s.done)
	return s
}

// NewServer returns an HTTP server serving the remote view API on addr.
func NewServer(addr string, signaler *bus.Signaler, coordinator *coordination.Coordinator) *http.Server {
	s := NewService(signaler, coordinator)
	router := httprouter.New()
	router.GET("/screenshot/:output", s.handleScreenshot)
	router.GET("/ws", s.handleSocket)
	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
	}
}

// screenshotResponse is the JSON rendering of a captured frame.
type screenshotResponse struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Stride int    `json:"stride"`
	Format string `json:"format"`
	Data   string `json:"data"`
}

func (s *Service) handleScreenshot(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	output, err := strconv.Atoi(params.ByName("output"))
	if err != nil {
		http.Error(w, "bad output id", http.StatusBadRequest)
		return
	}

	s.shotMu.Lock()
	defer s.shotMu.Unlock()

	// Flush completions of screenshots nobody collected.
	for {
		if _, ok := s.done.TryRecv(); !ok {
			break
		}
	}

	s.coordinator.TakeScreenshot(core.OutputID(output))
	if _, ok := s.done.RecvTimeout(screenshotTimeout); !ok {
		http.Error(w, "screenshot timed out", http.StatusGatewayTimeout)
		return
	}
	buffer := s.coordinator.TakeScreenshotBuffer()
	if buffer.IsEmpty() {
		http.Error(w, "no screenshot data", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(screenshotResponse{
		Width:  buffer.Width,
		Height: buffer.Height,
		Stride: buffer.Stride,
		Format: buffer.Format.String(),
		Data:   base64.StdEncoding.EncodeToString(buffer.Data),
	})
}

// inputMessage is one injected event.
type inputMessage struct {
	Type  string `json:"type"`
	Code  uint16 `json:"code"`
	Value int32  `json:"value"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
}

func (s *Service) handleSocket(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnf("websocket upgrade failed: %s", err)
		return
	}
	defer conn.Close()
	s.log.Infof("remote input connection from %s", conn.RemoteAddr())

	for {
		var msg inputMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debugf("remote input connection closed: %s", err)
			}
			return
		}
		s.inject(msg)
	}
}

// inject translates one message into a bus signal.
func (s *Service) inject(msg inputMessage) {
	now := uint64(time.Now().UnixMilli())
	switch msg.Type {
	case "key":
		s.signaler.Emit(core.SignalInputKey, core.Key{
			Code:   msg.Code,
			Value:  msg.Value,
			TimeMs: now,
		})
	case "motion":
		s.signaler.Emit(core.SignalInputPointerMotion, core.Motion{
			Position: geom.NewPosition(msg.X, msg.Y),
			TimeMs:   now,
		})
	case "button":
		s.signaler.Emit(core.SignalInputPointerButton, core.Button{
			Code:   msg.Code,
			Value:  msg.Value,
			TimeMs: now,
		})
	default:
		s.log.Warnf("unknown remote input type %q", msg.Type)
	}
}
