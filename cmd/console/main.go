// Command console is a terminal client for the Ready Room service: it
// submits dilemmas, paces the streamed response through the playback
// controller, and archives saved consultations in the captain's log.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"readyroom/pkg/playback"
	"readyroom/pkg/server"
	"readyroom/pkg/settings"
)

type adviceRequest struct {
	Dilemma  string            `json:"dilemma"`
	Settings settings.Settings `json:"settings"`
}

type titleRequest struct {
	Dilemma     string `json:"dilemma"`
	Advice      string `json:"advice"`
	LocutusMode bool   `json:"locutusMode"`
}

type titleResponse struct {
	Title    string `json:"title"`
	Stardate string `json:"stardate"`
}

type logSaveRequest struct {
	Dilemma  string           `json:"dilemma"`
	Advice   string           `json:"advice"`
	Persona  settings.Persona `json:"persona"`
	Title    string           `json:"title"`
	Stardate string           `json:"stardate"`
}

// pendingEntry is a completed, titled response that has not been saved to
// the log yet. Any settings change discards it.
type pendingEntry struct {
	logSaveRequest
	valid bool
}

type console struct {
	baseURL  string
	client   *http.Client
	settings settings.Settings
	pending  pendingEntry
}

func main() {
	baseURL := os.Getenv("READYROOM_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	c := &console{
		baseURL:  baseURL,
		client:   &http.Client{},
		settings: settings.Defaults(),
	}
	c.loadSettings()

	fmt.Println("Captain's Ready Room. State your dilemma, or /help for commands.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if !c.handleCommand(line) {
				return
			}
			continue
		}
		c.seekAdvice(line)
	}
}

func (c *console) loadSettings() {
	resp, err := c.client.Get(c.baseURL + "/settings")
	if err != nil {
		log.Printf("Could not load settings, using defaults: %v", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return
	}
	var s settings.Settings
	if err := json.NewDecoder(resp.Body).Decode(&s); err == nil {
		c.settings = s
	}
}

// handleCommand returns false when the session should end.
func (c *console) handleCommand(line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return false

	case "/help":
		fmt.Println("/speed N      animation speed 0-100 (0 = instant)")
		fmt.Println("/style S      diplomatic|philosophical|direct|inspirational")
		fmt.Println("/locutus      switch to the alternate persona")
		fmt.Println("/picard       switch back to the captain")
		fmt.Println("/shakespeare  toggle classical references")
		fmt.Println("/save         archive the last response in the captain's log")
		fmt.Println("/log          list archived entries")
		fmt.Println("/quit         end the session")

	case "/speed":
		if len(fields) < 2 {
			fmt.Println("usage: /speed N")
			break
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			fmt.Println("usage: /speed N")
			break
		}
		next := c.settings
		next.AnimationSpeed = n
		c.updateSettings(next)

	case "/style":
		if len(fields) < 2 {
			fmt.Println("usage: /style S")
			break
		}
		next := c.settings
		next.AdviceStyle = settings.Style(fields[1])
		c.updateSettings(next)

	case "/locutus":
		next := c.settings
		next.Persona = settings.PersonaLocutus
		c.updateSettings(next)

	case "/picard":
		next := c.settings
		next.Persona = settings.PersonaPicard
		c.updateSettings(next)

	case "/shakespeare":
		next := c.settings
		next.ShakespeareMode = !next.ShakespeareMode
		c.updateSettings(next)

	case "/save":
		c.saveToLog()

	case "/log":
		c.showLog()

	default:
		fmt.Println("Unknown command. /help lists what the ship's computer accepts.")
	}
	return true
}

// updateSettings pushes the change to the service and discards any
// unsaved response, mirroring the panel's behavior.
func (c *console) updateSettings(next settings.Settings) {
	body, _ := json.Marshal(next)
	req, _ := http.NewRequest(http.MethodPut, c.baseURL+"/settings", bytes.NewReader(body))
	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("Settings update failed: %v", err)
		return
	}
	defer resp.Body.Close()

	var applied settings.Settings
	if err := json.NewDecoder(resp.Body).Decode(&applied); err != nil {
		log.Printf("Settings update failed: %v", err)
		return
	}
	c.settings = applied

	if c.pending.valid {
		c.pending = pendingEntry{}
		fmt.Println("(unsaved response discarded)")
	}
	fmt.Printf("Settings: speed=%d style=%s persona=%s shakespeare=%v\n",
		applied.AnimationSpeed, applied.AdviceStyle, applied.Persona, applied.ShakespeareMode)
}

func (c *console) seekAdvice(dilemma string) {
	body, _ := json.Marshal(adviceRequest{Dilemma: dilemma, Settings: c.settings})
	resp, err := c.client.Post(c.baseURL+"/advice", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("Request failed: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("The ship's computer declined the request (status %d).\n", resp.StatusCode)
		return
	}

	fmt.Println("The Captain is considering your dilemma...")
	ctrl := playback.New(c.settings.AnimationSpeed)

	printed := make(chan struct{})
	go func() {
		defer close(printed)
		prev := 0
		for {
			select {
			case <-ctrl.Updates():
				prev = printFrom(ctrl, prev)
			case <-ctrl.Done():
				printFrom(ctrl, prev)
				return
			}
		}
	}()

	playErr := ctrl.Play(resp.Body)
	<-printed
	fmt.Println()

	if playErr != nil {
		log.Printf("Stream read failed: %v", playErr)
	}
	// The trailer is only available once the body has been consumed
	if status := resp.Trailer.Get(server.StreamStatusTrailer); status == server.StreamStatusError {
		fmt.Println("(transmission was interrupted before completion)")
	}

	advice, _ := ctrl.Snapshot()
	if advice == "" {
		return
	}

	title, stardate := c.fetchTitle(dilemma, advice)
	fmt.Printf("Title: %s (Stardate %s). /save to archive.\n", title, stardate)

	c.pending = pendingEntry{
		logSaveRequest: logSaveRequest{
			Dilemma:  dilemma,
			Advice:   advice,
			Persona:  c.settings.Persona,
			Title:    title,
			Stardate: stardate,
		},
		valid: true,
	}
}

// printFrom prints the part of the visible text not yet echoed and
// returns the new high-water mark.
func printFrom(ctrl *playback.Controller, prev int) int {
	text, _ := ctrl.Snapshot()
	if len(text) > prev {
		fmt.Print(text[prev:])
	}
	return len(text)
}

func (c *console) fetchTitle(dilemma, advice string) (string, string) {
	body, _ := json.Marshal(titleRequest{
		Dilemma:     dilemma,
		Advice:      advice,
		LocutusMode: c.settings.Persona == settings.PersonaLocutus,
	})
	resp, err := c.client.Post(c.baseURL+"/title", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("Title request failed: %v", err)
		return "Untitled Log Entry", ""
	}
	defer resp.Body.Close()

	var tr titleResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		log.Printf("Title request failed: %v", err)
		return "Untitled Log Entry", ""
	}
	return tr.Title, tr.Stardate
}

func (c *console) saveToLog() {
	if !c.pending.valid {
		fmt.Println("Nothing to save.")
		return
	}
	body, _ := json.Marshal(c.pending.logSaveRequest)
	resp, err := c.client.Post(c.baseURL+"/log", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("Save failed: %v", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Save failed (status %d).\n", resp.StatusCode)
		return
	}
	c.pending = pendingEntry{}
	fmt.Println("Entry archived in the captain's log.")
}

func (c *console) showLog() {
	resp, err := c.client.Get(c.baseURL + "/log")
	if err != nil {
		log.Printf("Log fetch failed: %v", err)
		return
	}
	defer resp.Body.Close()

	var entries []logSaveRequest
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		log.Printf("Log fetch failed: %v", err)
		return
	}
	if len(entries) == 0 {
		fmt.Println("No entries in the Captain's Log.")
		return
	}
	// Newest last in storage; show newest first
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		fmt.Printf("Stardate %s: %s\n  Regarding: %s\n", e.Stardate, e.Title, firstN(e.Dilemma, 60))
	}
}

func firstN(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
