package alarm

import (
	"log"
	"os/exec"
	"strconv"
	"strings"

	"pomflow/internal/model"
)

// Command plays the alarm with an external program such as paplay or afplay.
// The placeholders {sound} and {volume} in Args are substituted; {volume} is
// rendered as a percentage.
type Command struct {
	Name   string
	Args   []string
	Logger *log.Logger

	start func(*exec.Cmd) error
}

func NewCommand(name string, args []string, logger *log.Logger) *Command {
	return &Command{Name: name, Args: args, Logger: logger, start: startAndReap}
}

func (c *Command) Play(kind model.AlarmSound, volume float64) {
	if c.Name == "" || volume <= 0 {
		return
	}
	cmd := exec.Command(c.Name, c.expandArgs(kind, volume)...)
	if err := c.start(cmd); err != nil && c.Logger != nil {
		c.Logger.Printf("alarm: start %s: %v", c.Name, err)
	}
}

func (c *Command) expandArgs(kind model.AlarmSound, volume float64) []string {
	replacer := strings.NewReplacer(
		"{sound}", string(kind),
		"{volume}", strconv.Itoa(int(volume*100+0.5)),
	)
	args := make([]string, len(c.Args))
	for i, arg := range c.Args {
		args[i] = replacer.Replace(arg)
	}
	return args
}

func startAndReap(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
