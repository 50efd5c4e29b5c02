package iterate

import (
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

// This file holds the setup shared by the three driver programs: the viper
// configuration file, its defaults, and the rotating problem log.

// makeFileExist checks that dir/filename exists, and creates the directory
// and file if it doesn't.
func makeFileExist(dir, filename string) (string, error) {
	if _, err := os.Stat(dir); err != nil {
		if !os.IsNotExist(err) {
			return "", err
		}
		if err2 := os.MkdirAll(dir, 0775); err2 != nil {
			return "", err2
		}
	}

	fullname := path.Join(dir, filename)
	if _, err := os.Stat(fullname); os.IsNotExist(err) {
		f, err2 := os.OpenFile(fullname, os.O_WRONLY|os.O_CREATE, 0664)
		if err2 != nil {
			return "", err2
		}
		f.Close()
	}
	return fullname, nil
}

// SetupViper sets up the viper configuration manager: says where to find
// config files and the filename and suffix, and sets the defaults the C
// originals hard-coded.
func SetupViper() error {
	// Source-identifying options (filename, interface, command) deliberately
	// have no viper defaults: each driver's flag set carries its own.
	viper.SetDefault("interval", 0.2)
	viper.SetDefault("count", 10)
	viper.SetDefault("verbose", false)

	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Printf("Error finding User Home Dir: %s\n", err)
	}
	dotIterate := filepath.Join(home, ".flent-iterate")
	const filename string = "config"
	const suffix string = ".yaml"
	if _, err := makeFileExist(dotIterate, filename+suffix); err != nil {
		return err
	}

	viper.SetConfigName(filename)
	viper.AddConfigPath(filepath.FromSlash("/etc/flent-iterate"))
	viper.AddConfigPath(dotIterate)
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %s", err)
	}
	return nil
}

// StartProblemLogger points ProblemLogger at a rotating log file in the
// user's config directory. On any failure it leaves the stderr logger in
// place: losing rotation is not worth losing diagnostics.
func StartProblemLogger(appName string) {
	home, err := os.UserHomeDir()
	if err != nil {
		ProblemLogger.Printf("could not find home dir for problem log: %v", err)
		return
	}
	pfname := filepath.Join(home, ".flent-iterate", appName+".log")
	rotating := &lumberjack.Logger{
		Filename:   pfname,
		MaxSize:    10,   // megabytes after which new file is created
		MaxBackups: 4,    // number of backups
		MaxAge:     180,  // days
		Compress:   true, // whether to gzip the backups
	}
	// Diagnostics stay on stderr (callers depend on the error channel being
	// separate from the snapshot stream) and are also kept in the rotating file.
	ProblemLogger = log.New(io.MultiWriter(os.Stderr, rotating), "", log.LstdFlags)
}
