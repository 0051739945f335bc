package main

import (
	"console-toolkit/console"
	uerrors "console-toolkit/util/errors"
	"errors"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

var log = &logrus.Logger{
	Out:   os.Stdout,
	Level: logrus.DebugLevel,
	Formatter: &logrus.TextFormatter{
		FullTimestamp: true,
	},
}

func main() {
	if err := start(); err != nil {
		log.Fatal(err)
	}
}

func start() error {
	addr := pflag.StringP("socket", "s", "", "path to the console socket")
	logPath := pflag.StringP("logfile", "l", "", "mirror the console to this file")
	quiet := pflag.DurationP("quiet", "q", 10*time.Second, "detach after the console is silent for this long")
	pflag.Parse()
	if *addr == "" {
		return errors.New("--socket is required")
	}

	cfg := console.DefaultConfig()
	cfg.LogPath = *logPath
	cfg.RecvTimeout = *quiet
	sock, err := console.Dial(*addr, cfg)
	if err != nil {
		return err
	}
	defer sock.Close()

	log.Infof("Attached to console at %s", *addr)
	for {
		p, err := sock.Recv(1)
		if err == uerrors.ErrTimeout {
			if derr := sock.DrainErr(); derr != nil {
				return derr
			}
			log.Infof("Console silent for %s, detaching", *quiet)
			return nil
		}
		if err != nil {
			return err
		}
		if _, err := os.Stdout.Write(p); err != nil {
			return err
		}
	}
}
