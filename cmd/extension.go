package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/rs/zerolog/log"
)

// ExtensionPrefix prefixes the name of the external refs-<subcommand> binaries.
const ExtensionPrefix = "refs-"

// RunExtension attempts to find and execute an external refs-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
//
// The global flags are passed to the extension as their environment variables.
func RunExtension(subcommand string, args []string) (bool, int) {
	name := ExtensionPrefix + subcommand
	lp, err := exec.LookPath(name)
	if err != nil {
		log.Debug().Err(err).Str("extension", name).Msg("extension not found in PATH")
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), extensionEnv()...)

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}

// extensionEnv returns the global flags that were set, as environment variables.
func extensionEnv() []string {
	var env []string
	if *referrerID != 0 {
		env = append(env, EnvReferrer+"="+strconv.FormatInt(*referrerID, 10))
	}
	if *dataDir != "" {
		env = append(env, EnvDataDir+"="+*dataDir)
	}
	if *verbose {
		env = append(env, EnvLogLevel+"=debug")
	}
	return env
}
