package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/aadithya-v/whereabouts"
	"github.com/aadithya-v/whereabouts/store"
)

func main() {
	// .env is optional; real transports inject these via the environment.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	recordStore, err := newStore()
	if err != nil {
		log.Fatalf("Failed to initialize record store: %v", err)
	}

	tracker, err := whereabouts.New(whereabouts.Config{
		RecordStore: recordStore,
		Logger:      logger,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracker: %v", err)
	}
	defer tracker.Close()

	bot := whereabouts.NewBot(tracker)

	// Stand-in transport: one event per stdin line. A real deployment wires
	// Bot.Handle to its messaging-platform client instead.
	fmt.Println("whereabouts demo. Commands:")
	fmt.Println("  start <user>")
	fmt.Println("  loc <user> <lat> <lng> [live-seconds]")
	fmt.Println("  edit <user> <lat> <lng>")
	fmt.Println("  say <user> <text...>")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		ev, err := parseEvent(scanner.Text())
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Println(bot.Handle(ev))
	}
}

// newStore picks a backend from WHEREABOUTS_STORE: file (default), sqlite,
// mysql, or redis.
func newStore() (store.RecordStore, error) {
	switch os.Getenv("WHEREABOUTS_STORE") {
	case "sqlite":
		return store.NewSQLite(envOr("WHEREABOUTS_DB", "whereabouts.db"))
	case "mysql":
		return store.NewMySQLFromDSN(os.Getenv("MYSQL_DSN"))
	case "redis":
		return store.NewRedisFromConfig(store.RedisConfig{
			Addr:     envOr("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		})
	default:
		return store.NewFile(envOr("WHEREABOUTS_FILE", "user_data.json")), nil
	}
}

func parseEvent(line string) (whereabouts.Event, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return nil, fmt.Errorf("usage: start|loc|edit|say <user> ...")
	}

	cmd, userID := fields[0], fields[1]
	switch cmd {
	case "start":
		return whereabouts.SessionStart{UserID: userID}, nil

	case "loc":
		if len(fields) < 4 {
			return nil, fmt.Errorf("usage: loc <user> <lat> <lng> [live-seconds]")
		}
		fix, err := parseFix(fields[2], fields[3])
		if err != nil {
			return nil, err
		}
		var livePeriod time.Duration
		if len(fields) > 4 {
			seconds, err := strconv.Atoi(fields[4])
			if err != nil {
				return nil, fmt.Errorf("bad live-seconds %q", fields[4])
			}
			livePeriod = time.Duration(seconds) * time.Second
		}
		return whereabouts.LocationReceived{UserID: userID, Fix: fix, LivePeriod: livePeriod}, nil

	case "edit":
		if len(fields) < 4 {
			return nil, fmt.Errorf("usage: edit <user> <lat> <lng>")
		}
		fix, err := parseFix(fields[2], fields[3])
		if err != nil {
			return nil, err
		}
		return whereabouts.LocationEdited{UserID: userID, Fix: fix}, nil

	case "say":
		return whereabouts.TextReceived{UserID: userID, Text: strings.Join(fields[2:], " ")}, nil

	default:
		return nil, fmt.Errorf("unknown command %q", cmd)
	}
}

func parseFix(latStr, lngStr string) (whereabouts.Fix, error) {
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return whereabouts.Fix{}, fmt.Errorf("bad latitude %q", latStr)
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return whereabouts.Fix{}, fmt.Errorf("bad longitude %q", lngStr)
	}
	return whereabouts.NewFix(lat, lng), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
