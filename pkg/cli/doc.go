/*
Package cli provides command-line interface utilities for the caduceus
command.

Error Types:

Commands wrap failures in typed errors so the root command reports them
uniformly:

	if err := doQuery(); err != nil {
		return cli.NewCommandError("audit", err)
	}

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx := cli.SetupSignalHandler()
	// Use ctx for operations that should be cancelled on shutdown
*/
package cli
