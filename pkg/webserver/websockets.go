package webserver

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/kumaabi/F1DataViz/pkg/model"
)

// wsMessage is one frame of the websocket stream: the pubsub topic the
// payload arrived on plus the payload itself.
type wsMessage struct {
	Topic string          `json:"topic"`
	Body  json.RawMessage `json:"body"`
}

// Record buffers every published payload so that new websocket clients can be
// brought up to date before their live feed starts. Runs until exitChan
// closes.
func (m *Manager) Record(exitChan <-chan bool) {
	standingsChan := m.pubsubMgr.Subscribe(model.StandingsTopic)
	sessionsChan := m.pubsubMgr.Subscribe(model.SessionsTopic)
	scheduleChan := m.pubsubMgr.Subscribe(model.ScheduleTopic)
	defer m.pubsubMgr.Unsubscribe(model.StandingsTopic, standingsChan)
	defer m.pubsubMgr.Unsubscribe(model.SessionsTopic, sessionsChan)
	defer m.pubsubMgr.Unsubscribe(model.ScheduleTopic, scheduleChan)

	for {
		select {
		case payload := <-standingsChan:
			m.remember(model.StandingsTopic, payload)
		case payload := <-sessionsChan:
			m.remember(model.SessionsTopic, payload)
		case payload := <-scheduleChan:
			m.remember(model.ScheduleTopic, payload)
		case <-exitChan:
			return
		}
	}
}

func (m *Manager) remember(topic, payload string) {
	frame, err := encodeFrame(topic, payload)
	if err != nil {
		log.Printf("Error encoding %s frame: %s\n", topic, err.Error())
		return
	}
	m.mu.Lock()
	m.recent.Push(frame)
	m.mu.Unlock()
}

func (m *Manager) replay() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recent.Items()
}

func (m *Manager) websocketHandler(w http.ResponseWriter, r *http.Request) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Print("upgrade:", err)
		return
	}
	defer c.Close()

	clientID := uuid.New().String()

	// the first client message opens the stream and fixes the frame type
	mt, message, err := c.ReadMessage()
	if err != nil {
		log.Println("read:", err)
		return
	}
	log.Printf("recv: %s (%d) from client %s", message, mt, clientID)

	standingsChan := m.pubsubMgr.Subscribe(model.StandingsTopic)
	sessionsChan := m.pubsubMgr.Subscribe(model.SessionsTopic)
	scheduleChan := m.pubsubMgr.Subscribe(model.ScheduleTopic)
	defer m.pubsubMgr.Unsubscribe(model.StandingsTopic, standingsChan)
	defer m.pubsubMgr.Unsubscribe(model.SessionsTopic, sessionsChan)
	defer m.pubsubMgr.Unsubscribe(model.ScheduleTopic, scheduleChan)

	for _, frame := range m.replay() {
		if err := c.WriteMessage(mt, []byte(frame)); err != nil {
			log.Println("write:", err)
			return
		}
	}

	for {
		select {
		case payload := <-standingsChan:
			if err := send(c, mt, model.StandingsTopic, payload); err != nil {
				log.Println("write:", err)
				return
			}
		case payload := <-sessionsChan:
			if err := send(c, mt, model.SessionsTopic, payload); err != nil {
				log.Println("write:", err)
				return
			}
		case payload := <-scheduleChan:
			if err := send(c, mt, model.ScheduleTopic, payload); err != nil {
				log.Println("write:", err)
				return
			}
		case <-r.Context().Done():
			log.Printf("websocket client %s closed\n", clientID)
			return
		}
	}
}

func send(c *websocket.Conn, mt int, topic, payload string) error {
	frame, err := encodeFrame(topic, payload)
	if err != nil {
		return err
	}
	return c.WriteMessage(mt, []byte(frame))
}

func encodeFrame(topic, payload string) (string, error) {
	frame, err := json.Marshal(wsMessage{Topic: topic, Body: json.RawMessage(payload)})
	if err != nil {
		return "", err
	}
	return string(frame), nil
}
