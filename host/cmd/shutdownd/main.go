// shutdownd runs on the computer the power controller sequences. It
// holds the peer-running line high so the controller knows the system
// is up, and watches the shutdown-request line; when the controller
// asserts it long enough, the daemon runs an optional pre-shutdown
// command and then powers the system off.
package main

import (
	"flag"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

var (
	chip       = flag.String("chip", "gpiochip0", "GPIO character device")
	requestPin = flag.Int("request-pin", 22, "shutdown request input line (active high)")
	runningPin = flag.Int("running-pin", 23, "peer-running output line")
	holdTime   = flag.Duration("hold", 600*time.Millisecond, "minimum request pulse length")
	activePoll = flag.Duration("active-poll", 20*time.Millisecond, "poll interval while the request line is asserted")
	idlePoll   = flag.Duration("idle-poll", time.Second, "poll interval while the request line is quiet")
	preCmd     = flag.String("pre-cmd", "", "command to run before powering off")
	preDelay   = flag.Duration("pre-delay", 0, "wait between pre-cmd and poweroff")
	poweroff   = flag.String("poweroff", "/sbin/poweroff", "poweroff command")
	dryRun     = flag.Bool("dry-run", false, "log instead of powering off")
)

func main() {
	flag.Parse()
	log.SetPrefix("shutdownd: ")

	// Assert "running" first. The controller treats the falling edge of
	// this line as shutdown-complete, so it must be held high for as
	// long as the daemon lives.
	running, err := gpiocdev.RequestLine(*chip, *runningPin, gpiocdev.AsOutput(1))
	if err != nil {
		log.Fatalf("failed to request running line %d: %v", *runningPin, err)
	}
	defer running.Close()

	request, err := gpiocdev.RequestLine(*chip, *requestPin, gpiocdev.AsInput)
	if err != nil {
		log.Fatalf("failed to request shutdown line %d: %v", *requestPin, err)
	}
	defer request.Close()

	// Releasing the lines on exit lets the pull-down take the running
	// line low, which the controller reads as an unexpected peer death.
	// That is the correct signal for a daemon kill too.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigs
		log.Printf("exiting on %v", s)
		request.Close()
		running.Close()
		os.Exit(0)
	}()

	mon := &Monitor{
		HoldTime:   *holdTime,
		ActivePoll: *activePoll,
		IdlePoll:   *idlePoll,
	}

	log.Printf("watching line %d on %s (hold %v)", *requestPin, *chip, *holdTime)

	last := time.Now()
	for {
		time.Sleep(mon.Interval())

		v, err := request.Value()
		if err != nil {
			log.Fatalf("failed to read shutdown line: %v", err)
		}
		now := time.Now()
		fire := mon.Sample(v != 0, now.Sub(last))
		last = now

		if fire {
			doShutdown()
		}
	}
}

func doShutdown() {
	log.Print("shutdown request confirmed, powering off")

	if *preCmd != "" {
		if err := runShell(*preCmd); err != nil {
			log.Printf("pre-cmd failed: %v", err)
		}
		time.Sleep(*preDelay)
	}

	if *dryRun {
		log.Printf("dry run: would exec %s", *poweroff)
		return
	}
	if err := runShell(*poweroff); err != nil {
		log.Fatalf("poweroff failed: %v", err)
	}
	os.Exit(0)
}

func runShell(cmdline string) error {
	cmd := exec.Command("/bin/sh", "-c", cmdline)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
