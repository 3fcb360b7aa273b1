package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mfigueira/echochat/internal/lock"
	"github.com/mfigueira/echochat/internal/profile"
	"github.com/mfigueira/echochat/internal/state"
	"github.com/mfigueira/echochat/internal/storage"
)

func main() {
	profileFlag := flag.String("profile", "", "profile name (overrides config default)")
	jsonFlag := flag.Bool("json", false, "output in JSON format")
	flag.Parse()

	name := profile.Resolve(*profileFlag)
	if err := profile.ValidateName(name); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "status":
		cmdStatus(name, *jsonFlag)
	case "wipe":
		cmdWipe(name)
	case "profiles":
		if len(args) >= 2 && args[1] == "list" {
			cmdProfilesList(*jsonFlag)
		} else {
			fmt.Fprintln(os.Stderr, "usage: echochatctl profiles list")
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: echochatctl [--profile <name>] [--json] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  status           Show persisted profile state")
	fmt.Fprintln(os.Stderr, "  wipe             Delete all persisted state for the profile")
	fmt.Fprintln(os.Stderr, "  profiles list    List known profiles")
}

type statusReport struct {
	Profile   string `json:"profile"`
	DBPath    string `json:"db_path"`
	SignedIn  bool   `json:"signed_in"`
	Phone     string `json:"phone,omitempty"`
	Chatrooms int    `json:"chatrooms"`
	Messages  int    `json:"messages"`
	Theme     string `json:"theme"`
}

// cmdStatus reads the profile database directly; the TUI does not need
// to be running.
func cmdStatus(name string, jsonOut bool) {
	db := openDB(name)
	defer func() { _ = db.Close() }()

	report := statusReport{Profile: name, DBPath: profile.DBPath(name), Theme: "light"}

	if raw, ok, err := db.Get(storage.KeyUser); err == nil && ok {
		var u state.User
		if json.Unmarshal([]byte(raw), &u) == nil {
			report.SignedIn = true
			report.Phone = u.Phone
		}
	}
	if raw, ok, err := db.Get(storage.KeyChatrooms); err == nil && ok {
		var rooms []state.Chatroom
		if json.Unmarshal([]byte(raw), &rooms) == nil {
			report.Chatrooms = len(rooms)
		}
	}
	if raw, ok, err := db.Get(storage.KeyMessages); err == nil && ok {
		var byRoom map[string][]state.Message
		if json.Unmarshal([]byte(raw), &byRoom) == nil {
			for _, msgs := range byRoom {
				report.Messages += len(msgs)
			}
		}
	}
	if raw, ok, err := db.Get(storage.KeyTheme); err == nil && ok {
		report.Theme = raw
	}

	if jsonOut {
		outputJSON(report)
		return
	}
	fmt.Printf("Profile:   %s\n", report.Profile)
	fmt.Printf("Database:  %s\n", report.DBPath)
	fmt.Printf("Signed in: %v\n", report.SignedIn)
	if report.Phone != "" {
		fmt.Printf("Phone:     %s\n", report.Phone)
	}
	fmt.Printf("Chatrooms: %d\n", report.Chatrooms)
	fmt.Printf("Messages:  %d\n", report.Messages)
	fmt.Printf("Theme:     %s\n", report.Theme)
}

// cmdWipe clears every persisted key. The profile lock is taken first so
// a running instance cannot race the wipe.
func cmdWipe(name string) {
	l, err := lock.Acquire(profile.Dir(name))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = l.Release() }()

	db := openDB(name)
	defer func() { _ = db.Close() }()

	if err := db.Clear(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Profile %q wiped.\n", name)
}

func cmdProfilesList(jsonOut bool) {
	entries, err := os.ReadDir(filepath.Join(profile.BaseDir(), "profiles"))
	if err != nil {
		if os.IsNotExist(err) {
			if jsonOut {
				outputJSON([]string{})
			}
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}

	if jsonOut {
		outputJSON(names)
		return
	}
	for _, n := range names {
		fmt.Println(n)
	}
}

func openDB(name string) *storage.DB {
	if err := profile.EnsureDir(name); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	db, err := storage.Open(profile.DBPath(name))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if _, err := db.Migrate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return db
}

func outputJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}
