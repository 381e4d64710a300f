package conf

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

type Cfg struct {
	DbDriver                string
	DbDSN                   string
	DataPath                string
	ScreenshotsFolder       string
	ScreenshotsAbsolutePath string
	ServerPort              int

	// Apply pipeline
	ConfirmTimeoutMinutes int
	SessionBufferSize     int
	AllowAutoApply        bool

	// Provider endpoints/credentials
	GreenhouseBoardToken string
	BrowserDriverPath    string
	BrowserProfilePath   string
	BrowserUsername      string
	BrowserPassword      string

	// Device to sample for the system metrics endpoint, i.e. "eth0".
	NetworkDev string
}

const (
	// FormsFolder holds the rendered form snapshots next to the screenshots.
	FormsFolder = "forms"
)

var (
	AppCfg = &Cfg{}
)

// ConfirmTimeout The window a run waits in front of the submit gate before it lapses.
func ConfirmTimeout() time.Duration {
	return time.Duration(AppCfg.ConfirmTimeoutMinutes) * time.Minute
}

func AbsoluteScreenshotPath(filename string) string {
	return filepath.Join(AppCfg.ScreenshotsAbsolutePath, filename)
}

func RelativeScreenshotPath(filename string) string {
	return filepath.Join(AppCfg.ScreenshotsFolder, filename)
}

func MakeDataFolders() error {
	if err := os.MkdirAll(AppCfg.ScreenshotsAbsolutePath, 0755); err != nil {
		return err
	}
	return os.MkdirAll(filepath.Join(AppCfg.DataPath, FormsFolder), 0755)
}

func getConfInt(key, envKey string) int {
	val := os.Getenv(envKey)
	if val == "" {
		return viper.GetInt(key)
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		log.Printf("[getConfInt] Error parsing env variable '%s': %v", envKey, err)
	}

	return n
}

func getConfBool(key, envKey string) bool {
	val := os.Getenv(envKey)
	if val == "" {
		return viper.GetBool(key)
	}

	b, err := strconv.ParseBool(val)
	if err != nil {
		log.Printf("[getConfBool] Error parsing env variable '%s': %v", envKey, err)
	}

	return b
}

func getConfString(key, envKey string) string {
	val := os.Getenv(envKey)
	if val == "" {
		val = viper.GetString(key)
	}
	if val == "" {
		log.Panicf("Missing config file value for key %s", key)
	}
	return val
}

func getConfStringOptional(key, envKey string) string {
	val := os.Getenv(envKey)
	if val == "" {
		val = viper.GetString(key)
	}
	return val
}

func Read() *Cfg {
	viper.SetConfigName("conf/app")
	viper.AddConfigPath("./")
	err := viper.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("Fatal error config file: %w \n", err))
	}

	AppCfg.DbDriver = getConfString("db.driver", "DB_DRIVER")
	AppCfg.DbDSN = getConfString("db.dsn", "DB_DSN")
	AppCfg.DataPath = getConfString("data.path", "DATA_PATH")
	AppCfg.ScreenshotsFolder = getConfString("data.screenshots_folder", "SCREENSHOTS_FOLDER")
	AppCfg.ScreenshotsAbsolutePath = filepath.Join(AppCfg.DataPath, AppCfg.ScreenshotsFolder)
	AppCfg.ServerPort = getConfInt("server.port", "SERVER_PORT")
	if AppCfg.ServerPort == 0 {
		AppCfg.ServerPort = 3000
	}

	AppCfg.ConfirmTimeoutMinutes = getConfInt("apply.confirm_timeout_minutes", "CONFIRM_TIMEOUT_MINUTES")
	if AppCfg.ConfirmTimeoutMinutes <= 0 {
		AppCfg.ConfirmTimeoutMinutes = 5
	}
	AppCfg.SessionBufferSize = getConfInt("apply.session_buffer_size", "SESSION_BUFFER_SIZE")
	if AppCfg.SessionBufferSize <= 0 {
		AppCfg.SessionBufferSize = 256
	}
	AppCfg.AllowAutoApply = getConfBool("apply.allow_auto", "ALLOW_AUTO_APPLY")

	AppCfg.GreenhouseBoardToken = getConfStringOptional("providers.greenhouse.board_token", "GREENHOUSE_BOARD_TOKEN")
	AppCfg.BrowserDriverPath = getConfStringOptional("providers.browser.driver_path", "BROWSER_DRIVER_PATH")
	AppCfg.BrowserProfilePath = getConfStringOptional("providers.browser.profile_path", "BROWSER_PROFILE_PATH")
	// Board login secrets only ever come from the environment.
	AppCfg.BrowserUsername = os.Getenv("BROWSER_USERNAME")
	AppCfg.BrowserPassword = os.Getenv("BROWSER_PASSWORD")

	AppCfg.NetworkDev = getConfStringOptional("monitoring.network_dev", "NETWORK_DEV")

	return AppCfg
}
