package network

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

type SocketEventName string

const (
	ApplicationProgressEvent  SocketEventName = "application:progress"
	ApplicationAwaitingEvent  SocketEventName = "application:awaiting_confirm"
	ApplicationConfirmedEvent SocketEventName = "application:confirmed"
	ApplicationManualEvent    SocketEventName = "application:manual_intervention_required"
	ApplicationDoneEvent      SocketEventName = "application:done"
	ApplicationErrorEvent     SocketEventName = "application:error"
	ApplicationCancelledEvent SocketEventName = "application:cancelled"
	ApplicationTimedOutEvent  SocketEventName = "application:timed_out"
	ApplicationDuplicateEvent SocketEventName = "application:already_applied"
)

var (
	// Queue size.
	broadCastChannel = make(chan SocketEvent, 1000)
	upGrader         = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool {
		return true
	}}
	dispatcher = wsDispatcher{}
)

type SocketEvent struct {
	Name SocketEventName `json:"name"`
	Data interface{}     `json:"data"`
}

// BroadCastClients Dispatches message asynchronously.
func BroadCastClients(name SocketEventName, data interface{}) {
	go SocketEvent{Name: name, Data: data}.channelDispatcher()
}

func (event SocketEvent) channelDispatcher() {
	broadCastChannel <- event
}

type wsDispatcher struct {
	mu        sync.Mutex
	listeners []*wsConnection
}

func (d *wsDispatcher) addWs(ws *wsConnection) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, ws)
}

func (d *wsDispatcher) broadCast(msg SocketEvent) {
	d.mu.Lock()
	listeners := append([]*wsConnection(nil), d.listeners...)
	d.mu.Unlock()

	for _, l := range listeners {
		if err := l.send(msg); err != nil {
			log.Errorf("[broadCast] %s", err)
		}
	}
}

func (p *wsConnection) send(v interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ws.WriteJSON(v)
}

func (d *wsDispatcher) rmWs(ws *websocket.Conn) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, l := range d.listeners {
		if l.ws == ws {
			d.listeners = append(d.listeners[:i], d.listeners[i+1:]...)
			break
		}
	}
}

type wsConnection struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (d *wsDispatcher) heartBeat() {
	log.Infoln("Starting websocket heartbeat ...")
	for {
		BroadCastClients("heartbeat", 10)
		time.Sleep(time.Second * 10)
	}
}

func WsListen() {
	go dispatcher.heartBeat()
	for {
		m := <-broadCastChannel
		dispatcher.broadCast(m)
	}
}

func WsHandler(c *gin.Context) {
	ws, err := upGrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Errorf("error get connection: %s", err)
		return
	}

	defer ws.Close()

	dispatcher.addWs(&wsConnection{ws: ws})
	ws.SetCloseHandler(func(code int, text string) error {
		log.Infoln("[WsHandler] Removing client")
		dispatcher.rmWs(ws)
		return nil
	})

	for {
		msg := &SocketEvent{}
		err := ws.ReadJSON(msg)
		if err != nil {
			log.Errorf("[WsHandler] error read message: %s", err)
			dispatcher.rmWs(ws)
			return
		}
		log.Infof("[Socket] %v", msg)
	}
}
