package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jypelle/hygroseg/internal/srv"
	"github.com/jypelle/hygroseg/internal/srv/config"
	"github.com/jypelle/hygroseg/internal/version"
	"github.com/sirupsen/logrus"
)

const configSuffix = "hygroseg"

func main() {

	// Logger
	logrus.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	mainCommand := filepath.Base(os.Args[0])

	// region Flags and Commands definition

	// Debug Mode
	debugMode := flag.Bool("d", false, "Enable debug mode")

	// Simulation Mode
	simulationMode := flag.Bool("s", false, "Enable simulation mode")

	// User config dir
	defaultConfigDir := "./." + configSuffix
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		defaultConfigDir = filepath.Join(userConfigDir, configSuffix)
	}
	configDir := flag.String("c", defaultConfigDir, "Location of hygroseg config folder")

	// Usage
	flag.Usage = func() {
		fmt.Printf("\nUsage: %s [OPTIONS] [COMMAND]\n", mainCommand)
		fmt.Printf("\nA temperature and humidity seven-segment display\n")
		fmt.Printf("\nOptions:\n")
		flag.PrintDefaults()
		fmt.Printf("\nCommands:\n")
		fmt.Printf("  run       Run server\n")
		fmt.Printf("  probe     Identify the sensor and print one reading\n")
		fmt.Printf("  version   Show the version number\n")
		fmt.Printf("\nRun '%s COMMAND --help' for more information on a command.\n", mainCommand)
	}

	// run command
	runCmd := flag.NewFlagSet("run", flag.ExitOnError)

	runCmd.Usage = func() {
		fmt.Printf("\nUsage: %s run\n", mainCommand)
		fmt.Printf("\nRun the server\n")
	}

	// probe command
	probeCmd := flag.NewFlagSet("probe", flag.ExitOnError)

	probeCmd.Usage = func() {
		fmt.Printf("\nUsage: %s probe\n", mainCommand)
		fmt.Printf("\nIdentify the sensor and print one reading\n")
	}

	// version command
	versionCmd := flag.NewFlagSet("version", flag.ExitOnError)

	versionCmd.Usage = func() {
		fmt.Printf("\nUsage: %s version\n", mainCommand)
		fmt.Printf("\nShow the version information\n")
	}

	// endregion

	// region Flags and Commands Parsing
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	var cmd *flag.FlagSet
	switch flag.Arg(0) {
	case "run":
		cmd = runCmd
	case "probe":
		cmd = probeCmd
	case "version":
		cmd = versionCmd
	default:
		fmt.Printf("\n%s is not a hygroseg command\n", flag.Args()[0])
		flag.Usage()
		os.Exit(1)
	}
	cmd.Parse(flag.Args()[1:])
	if cmd.NArg() > 0 {
		fmt.Printf("\n\"%s %s\" accepts no arguments\n", mainCommand, flag.Arg(0))
		cmd.Usage()
		os.Exit(1)
	}
	// endregion

	if *debugMode {
		logrus.SetLevel(logrus.DebugLevel)
		logrus.SetFormatter(&logrus.TextFormatter{ForceColors: true, FullTimestamp: true, TimestampFormat: time.RFC3339Nano})
		logrus.Printf("Debug mode activated")
	}

	switch {
	case versionCmd.Parsed():
		fmt.Printf("Version %s\n", version.AppVersion.String())
	case probeCmd.Parsed():
		serverConfig := config.NewServerConfig(*configDir, *debugMode, *simulationMode)
		if err := srv.Probe(serverConfig, os.Stdout); err != nil {
			logrus.Fatalf("Probe failed: %v", err)
		}
	case runCmd.Parsed():
		// Create hygroseg server
		serverApp := srv.NewServerApp(*configDir, *debugMode, *simulationMode)

		// Listen stop signal
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)

		// Start hygroseg server
		serverApp.Start()

		sig := <-ch
		logrus.Infof("Received signal: %v", sig)
		serverApp.Stop()
	}

}
