package model

// Command is a single external command invocation on the runner.
type Command struct {
	Dir  string
	Name string
	Args []string
	Env  []string // Additional environment entries in KEY=VALUE form
}

// ShellCommand wraps a shell command line for execution via /bin/sh, the
// way CI step scripts are run.
func ShellCommand(dir, line string) Command {
	return Command{
		Dir:  dir,
		Name: "/bin/sh",
		Args: []string{"-c", line},
	}
}
