package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/ayusman/taala/internal/app"
	"github.com/ayusman/taala/internal/config"
	"github.com/ayusman/taala/internal/server"
	"github.com/ayusman/taala/internal/store"
	"github.com/ayusman/taala/internal/tray"
	"github.com/ayusman/taala/internal/upload"
)

func main() {
	fmt.Println("Taala - Motion Cycle Analyzer")

	cfg := config.Load()

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	live := server.NewLiveHandler()

	a, err := app.New(app.Config{
		Store:        st,
		CameraID:     cfg.CameraID,
		MotionThresh: cfg.MotionThresh,
		Detector:     cfg.Detector(),
		Sink:         live,
	})
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}
	a.LoadSettings()

	if err := a.Start(); err != nil {
		log.Printf("Capture pipeline not started: %v", err)
	}
	defer a.Stop()

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	var uploader *upload.Uploader
	if cfg.UploadEndpoint != "" {
		uploader = upload.NewUploader(cfg.UploadEndpoint, 10000)
		fmt.Printf("Exporting analyses to: %s\n", cfg.UploadEndpoint)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Camera:    a.Camera(),
		Control:   a,
		Live:      live,
		Uploader:  uploader,
	})

	fmt.Printf("Starting server on %s\n", cfg.HTTPAddr)
	go func() {
		if err := srv.ListenAndServe(cfg.HTTPAddr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if cfg.EnableTray {
		runTray(a, cfg.HTTPAddr)
		return
	}

	// No tray: block on the server goroutine forever.
	select {}
}

// runTray wires the system tray to the app and blocks until quit.
func runTray(a *app.App, addr string) {
	t := tray.New()
	t.OnToggle(func(enabled bool) {
		a.SetEnabled(enabled)
	})
	t.OnDashboard(func() {
		openBrowser("http://" + addr)
	})
	t.OnQuit(func() {
		a.Stop()
	})
	t.Run()
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and the data directory.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".taala", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
