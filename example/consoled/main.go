package main

import (
	"console-toolkit/netem"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
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

var bootLines = []string{
	"SeaBIOS (version 1.13.0)\n",
	"Booting from Hard Disk...\n",
	"Welcome to the mock machine\n",
	"login: ",
}

func main() {
	if err := start(); err != nil {
		log.Fatal(err)
	}
}

func start() error {
	addr := pflag.StringP("socket", "s", "/tmp/consoled.sock", "path of the UNIX socket to serve")
	interval := pflag.DurationP("interval", "i", time.Second, "pause between output lines")
	fragment := pflag.IntP("fragment", "f", 8, "split each line into fragments of this size")
	pflag.Parse()

	if err := os.RemoveAll(*addr); err != nil {
		return err
	}
	l, err := net.Listen("unix", *addr)
	if err != nil {
		return err
	}
	log.Infof("Serving mock console at %s", *addr)

	cfg := netem.Config{WriteFragmentSize: *fragment}
	wg := &sync.WaitGroup{}
	wg.Add(1)
	go listenRoutine(wg, l, cfg, *interval)

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	log.Infof("Received signal %+v", <-ch)

	l.Close()
	wg.Wait()
	return nil
}

func listenRoutine(wg *sync.WaitGroup, l net.Listener, cfg netem.Config, interval time.Duration) {
	defer wg.Done()
	for {
		conn, err := l.Accept()
		if err != nil {
			return
		}
		// Writers run until their client detaches; they don't hold up
		// daemon shutdown.
		go serveRoutine(conn, cfg, interval)
	}
}

func serveRoutine(conn net.Conn, cfg netem.Config, interval time.Duration) {
	if err := serve(conn, cfg, interval); err != nil && err != io.EOF {
		log.Errorf("Serve error: %+v", err)
	}
}

func serve(conn net.Conn, cfg netem.Config, interval time.Duration) error {
	defer conn.Close()
	addr := conn.RemoteAddr()
	log.Infof("Console attached: %v", addr)
	ne := netem.New(conn, cfg)
	for _, line := range bootLines {
		if _, err := ne.Write([]byte(line)); err != nil {
			return err
		}
		time.Sleep(interval)
	}
	for i := 1; ; i++ {
		line := fmt.Sprintf("tick %d\n", i)
		if _, err := ne.Write([]byte(line)); err != nil {
			return err
		}
		time.Sleep(interval)
	}
}
