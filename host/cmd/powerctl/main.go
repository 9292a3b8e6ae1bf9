// powerctl is the bench tool for talking to the power controller
// through a USB-serial register bridge: read channels, set the sampling
// mask, and push the controller into its bootloader for reflashing.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"powermon/host/regbus"
)

var (
	device  = flag.String("device", "/dev/ttyACM0", "Register bridge device path")
	baud    = flag.Int("baud", 115200, "Baud rate (ignored for USB CDC)")
	cfgPath = flag.String("config", "", "Channel map YAML (optional)")
)

func main() {
	flag.Parse()

	cfg := DefaultConfig()
	if *cfgPath != "" {
		var err error
		cfg, err = LoadConfig(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	bc := regbus.DefaultConfig(*device)
	bc.Baud = *baud
	client, err := regbus.Open(bc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	major, minor, err := client.Version()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: no controller on %s: %v\n", *device, err)
		os.Exit(1)
	}
	variant, _ := client.Variant()
	fmt.Printf("Power controller v%d.%d, board variant %#02x\n", major, minor, variant)

	// With no command arguments, drop into the interactive loop.
	if args := flag.Args(); len(args) > 0 {
		if err := runCommand(client, cfg, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println("Enter commands (type 'help' for available commands, 'quit' to exit):")
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
		args := strings.Fields(line)
		switch args[0] {
		case "quit", "exit", "q":
			return
		case "help", "?":
			printHelp()
		default:
			if err := runCommand(client, cfg, args); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
	}
}

func runCommand(client *regbus.Client, cfg *Config, args []string) error {
	switch args[0] {
	case "mask":
		m, err := client.ReadMask()
		if err != nil {
			return err
		}
		fmt.Printf("request mask: %#02x\n", m)
		return nil

	case "setmask":
		if len(args) != 2 {
			return fmt.Errorf("usage: setmask <hex mask>")
		}
		m, err := strconv.ParseUint(strings.TrimPrefix(args[1], "0x"), 16, 8)
		if err != nil {
			return fmt.Errorf("bad mask %q: %w", args[1], err)
		}
		return client.WriteMask(uint8(m))

	case "enable":
		return client.WriteMask(cfg.Mask())

	case "read":
		if len(args) == 1 {
			return readAll(client, cfg)
		}
		ch, ok := cfg.Lookup(args[1])
		if !ok {
			return fmt.Errorf("unknown channel %q", args[1])
		}
		return readOne(client, ch)

	case "watch":
		interval := time.Second
		if len(args) == 2 {
			d, err := time.ParseDuration(args[1])
			if err != nil {
				return fmt.Errorf("bad interval %q: %w", args[1], err)
			}
			interval = d
		}
		for {
			if err := readAll(client, cfg); err != nil {
				return err
			}
			fmt.Println()
			time.Sleep(interval)
		}

	case "aux":
		return client.ToggleAux()

	case "bootloader":
		if err := client.EnterBootloader(); err != nil {
			return err
		}
		fmt.Println("controller is rebooting to its bootloader")
		return nil

	default:
		return fmt.Errorf("unknown command %q (try 'help')", args[0])
	}
}

func readOne(client *regbus.Client, ch *ChannelConfig) error {
	raw, err := client.ReadChannel(ch.Index)
	if err != nil {
		return err
	}
	fmt.Printf("%-14s %6d  %8.3f %s\n", ch.Name, raw, float64(raw)*ch.Scale, ch.Unit)
	return nil
}

func readAll(client *regbus.Client, cfg *Config) error {
	mask, err := client.ReadMask()
	if err != nil {
		return err
	}
	for i := range cfg.Channels {
		ch := &cfg.Channels[i]
		if mask&(1<<ch.Index) == 0 {
			continue
		}
		if err := readOne(client, ch); err != nil {
			return err
		}
	}
	return nil
}

func printHelp() {
	fmt.Println(`Available commands:
  mask              show the channel request mask
  setmask <hex>     set the channel request mask
  enable            request every channel in the config
  read [channel]    read one channel, or all requested channels
  watch [interval]  repeatedly read all requested channels
  aux               toggle the auxiliary pin
  bootloader        reboot the controller into its bootloader
  quit              exit`)
}
