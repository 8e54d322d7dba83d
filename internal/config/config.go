// Package config reads the user preferences file ~/.plotpicrc.
package config

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const rcName = ".plotpicrc"

type Config struct {
	SaveDirectory     string
	HistoryFile       string
	MouseSelectsInner bool
	FontSize          int
	Font              string
	PNGResolution     int
}

// Default returns the preferences used when no rc file exists.
func Default() *Config {
	return &Config{
		FontSize:      10,
		Font:          "Helvetica",
		PNGResolution: 300,
	}
}

// Load reads ~/.plotpicrc. A missing or unreadable file yields the defaults.
func Load() *Config {
	config := Default()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return config
	}

	file, err := os.Open(filepath.Join(homeDir, rcName))
	if err != nil {
		return config
	}
	defer file.Close()

	config.parse(file, homeDir)
	return config
}

func (c *Config) parse(r io.Reader, homeDir string) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch strings.ToLower(key) {
		case "savedirectory", "save_directory", "savedir":
			c.SaveDirectory = expandPath(value, homeDir)
		case "historyfile", "history_file", "history":
			c.HistoryFile = expandPath(value, homeDir)
		case "mouseselectsinner", "mouse_selects_inner":
			c.MouseSelectsInner = strings.ToLower(value) == "true"
		case "fontsize", "font_size":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				c.FontSize = n
			}
		case "font":
			c.Font = value
		case "pngdpi", "png_dpi", "pngresolution":
			if n, err := strconv.Atoi(value); err == nil && (n == 300 || n == 600) {
				c.PNGResolution = n
			}
		}
	}
}

func expandPath(value, homeDir string) string {
	if value == "" {
		return ""
	}
	if strings.HasPrefix(value, "~") {
		value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}

// GetSavePath places filename in the save directory, creating it if needed.
func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" || filepath.IsAbs(filename) {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}
