package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"shopassist-backend/internal/analytics"
	"shopassist-backend/internal/chatclient"
)

// defaultStoreInfo mirrors the context the marketing site ships with its
// embedded widget.
const defaultStoreInfo = `Return Policy: You can return products within 7 days of delivery.
Shipping: We offer free shipping on all orders above ₹999.
Product Info: All our skincare products are vegan and cruelty-free.`

func main() {
	backendURL := flag.String("backend", "http://localhost:8080", "chat relay base URL")
	storeInfo := flag.String("store-info", defaultStoreInfo, "store context sent with each turn")
	client := flag.String("client", "chatcli", "embedding client label for analytics")
	quiet := flag.Bool("quiet", false, "disable analytics logging")
	flag.Parse()

	var tracker analytics.Tracker = analytics.NewLogTracker(analytics.Config{Client: *client})
	if *quiet {
		tracker = analytics.NopTracker{}
	}

	relay := chatclient.NewRelayClient(*backendURL, 0)
	session := chatclient.NewSession(relay, chatclient.NewSessionContext(*client, "cli"), chatclient.Options{
		StoreInfo: *storeInfo,
		Tracker:   tracker,
	})

	session.Open()
	session.Greet()
	printLatest(session, 0)

	fmt.Println("Type a question (or /quit to exit). Suggested:")
	for _, q := range session.SuggestedQuestions() {
		fmt.Printf("  - %s\n", q)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := scanner.Text()
		if strings.TrimSpace(input) == "/quit" {
			break
		}

		before := len(session.DisplayTranscript())
		if err := session.SendTurn(context.Background(), input); err != nil {
			if errors.Is(err, chatclient.ErrTurnInFlight) {
				fmt.Println("(still waiting on the previous reply)")
				continue
			}
			log.Fatalf("send turn: %v", err)
		}
		printLatest(session, before)
	}

	session.End()
}

// printLatest prints display entries appended since the given offset.
func printLatest(session *chatclient.Session, since int) {
	transcript := session.DisplayTranscript()
	for _, msg := range transcript[since:] {
		fmt.Printf("[%s] %s\n", msg.Sender, msg.Text)
	}
}
