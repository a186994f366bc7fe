// Dispatcher simulator: emits fake tagged commands to the command topic
// so the engine can be exercised without a chat frontend.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/segmentio/kafka-go"

	"demo/grouporders/internal/command"
)

var restaurants = []string{"50嵐", "八曜和茶", "迷客夏", "mateas", "大茗"}

var menu = []string{
	"珍珠奶茶", "紅茶", "綠茶", "珍奶(半糖)", "烏龍拿鐵", "冬瓜茶", "檸檬綠(去冰)",
}

func main() {
	gofakeit.Seed(time.Now().UnixNano())

	brokers := splitCSV(env("KAFKA_BROKERS", "localhost:9094"))
	topic := env("KAFKA_COMMAND_TOPIC", "group-order-commands")
	rounds := mustInt("3", os.Getenv("GEN_ROUNDS"))
	gap := mustInt("0", os.Getenv("GEN_INTERVAL_MS"))
	log.Printf("brokers=%v topic=%s rounds=%d", brokers, topic, rounds)

	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}
	defer func() {
		if err := w.Close(); err != nil {
			log.Printf("close writer: %v", err)
		}
	}()

	ctx := context.Background()
	total := 0
	for i := 0; i < rounds; i++ {
		for _, cmd := range fakeRound() {
			if err := send(ctx, w, cmd); err != nil {
				log.Fatalf("produce: %v", err)
			}
			total++
			if gap > 0 {
				time.Sleep(time.Duration(gap) * time.Millisecond)
			}
		}
	}
	log.Printf("done: produced=%d command(s)", total)
}

// fakeRound simulates one leader opening a group and a few users
// ordering into it by restaurant name; the engine resolves the open
// order itself, so no ids are needed here.
func fakeRound() []command.Command {
	leader := "U" + gofakeit.DigitN(8)
	restaurant := restaurants[gofakeit.Number(0, len(restaurants)-1)]

	cmds := []command.Command{{
		Type:       command.TypeOpenGroup,
		UserID:     leader,
		Restaurant: restaurant,
	}}

	users := gofakeit.Number(1, 4)
	for i := 0; i < users; i++ {
		user := "U" + gofakeit.DigitN(8)
		n := gofakeit.Number(1, 3)
		picks := make([]string, 0, n)
		for j := 0; j < n; j++ {
			picks = append(picks, menu[gofakeit.Number(0, len(menu)-1)])
		}
		cmds = append(cmds, command.Command{
			Type:   command.TypeAddItems,
			UserID: user,
			Text:   strings.Join(picks, "、"),
		})
	}
	return cmds
}

func send(ctx context.Context, w *kafka.Writer, cmd command.Command) error {
	val, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("marshal command: %w", err)
	}
	err = w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(cmd.UserID),
		Value: val,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
			{Key: "source", Value: []byte("producer")},
		},
	})
	if err != nil {
		return err
	}
	log.Printf("produced type=%s user=%s", cmd.Type, cmd.UserID)
	return nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustInt(def string, s string) int {
	if s == "" {
		s = def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func splitCSV(s string) []string {
	ps := strings.Split(s, ",")
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
