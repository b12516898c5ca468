package main

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	MsgTypeCreateGame   = 101
	MsgTypePlayerAction = 201
	MsgTypeGameStart    = 301
	MsgTypeGameSync     = 302
	MsgTypeGameOver     = 303
	MsgTypeError        = 401
)

// snapshot mirrors the server's game sync payload.
type snapshot struct {
	Board  [][]int `json:"board"`
	Piece  [][]int `json:"piece"`
	PieceX int     `json:"piece_x"`
	PieceY int     `json:"piece_y"`
	Score  int     `json:"score"`
	Lines  int     `json:"lines"`
	Level  int     `json:"level"`
	Over   bool    `json:"game_over"`
}

// commands maps stdin words onto the server's action protocol.
var commands = map[string]string{
	"a": "left", "left": "left",
	"d": "right", "right": "right",
	"w": "rotate_cw", "rot": "rotate_cw",
	"q": "rotate_ccw",
	"s": "soft_drop", "down": "soft_drop",
	"x": "hard_drop", "drop": "hard_drop",
	"r": "restart", "restart": "restart",
}

// send formats and sends a message to the WebSocket server.
func send(c *websocket.Conn, msgID uint16, data []byte) error {
	packet := make([]byte, 4+len(data))
	binary.BigEndian.PutUint16(packet[0:2], msgID)
	binary.BigEndian.PutUint16(packet[2:4], uint16(len(data)))
	copy(packet[4:], data)

	return c.WriteMessage(websocket.BinaryMessage, packet)
}

// render draws the board with the falling piece stamped in. Rows above
// the visible field are skipped.
func render(sn snapshot) {
	rows := make([][]int, len(sn.Board))
	for y, row := range sn.Board {
		rows[y] = append([]int(nil), row...)
	}
	for y, row := range sn.Piece {
		for x, v := range row {
			by, bx := sn.PieceY+y, sn.PieceX+x
			if v != 0 && by >= 0 && by < len(rows) && bx >= 0 && bx < len(rows[by]) {
				rows[by][bx] = v
			}
		}
	}

	var sb strings.Builder
	for _, row := range rows {
		sb.WriteByte('|')
		for _, v := range row {
			if v == 0 {
				sb.WriteString(" .")
			} else {
				sb.WriteString("[]")
			}
		}
		sb.WriteString("|\n")
	}
	sb.WriteByte('+')
	for range rows[0] {
		sb.WriteString("--")
	}
	sb.WriteString("+\n")
	fmt.Print(sb.String())
	fmt.Printf("score=%d lines=%d level=%d\n", sn.Score, sn.Lines, sn.Level)
	if sn.Over {
		fmt.Println("*** GAME OVER *** (type r to restart)")
	}
}

func main() {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	u := url.URL{Scheme: "ws", Host: "localhost:8080", Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			if len(message) < 4 {
				log.Printf("Received invalid packet of size %d", len(message))
				continue
			}
			msgID := binary.BigEndian.Uint16(message[0:2])
			data := message[4:]

			switch msgID {
			case MsgTypeCreateGame:
				log.Printf("Game created: %s", string(data))
			case MsgTypeGameStart, MsgTypeGameSync, MsgTypeGameOver:
				var sn snapshot
				if err := json.Unmarshal(data, &sn); err != nil {
					log.Printf("Bad snapshot: %v", err)
					continue
				}
				render(sn)
			case MsgTypeError:
				log.Printf("Server error: %s", string(data))
			default:
				log.Printf("<- RECV (ID: %d): %s", msgID, string(data))
			}
		}
	}()

	// Create a game immediately; the room starts the match on its next
	// heartbeat.
	log.Println("Sending Create Game request...")
	if err := send(c, MsgTypeCreateGame, []byte(`{"user_id":1,"name":"console"}`)); err != nil {
		log.Println("Write error:", err)
		return
	}

	log.Println("Controls: a/d move, w/q rotate, s soft drop, x hard drop, r restart")

	// Write loop
	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		default:
			text, _ := reader.ReadString('\n')
			action, ok := commands[strings.TrimSpace(text)]
			if !ok {
				continue
			}

			actionData, _ := json.Marshal(map[string]string{"type": action})
			if err := send(c, MsgTypePlayerAction, actionData); err != nil {
				log.Println("Write error:", err)
				return
			}
		}
	}
}
