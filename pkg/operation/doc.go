/*
Package operation applies patch sets to the files they target.

	+-------------+
	|   Runner    |
	| (sync/async)|
	+------+------+
	       |
	+------+------+------------+
	|             |            |
	+-----+-----+ +-----+----+ +-----+-----+
	|   Apply   | |  Check   | |  Restore  |
	+-----------+ +----------+ +-----------+

🎯 Purpose:
- Resolves patch targets (plain paths or doublestar globs) to files
- Groups patches by file, keeping declaration order within a file
- Applies each pattern once, at its first match, and writes the file in place

🔄 Flow:
1. Targets: expand every patch target through the status manager
2. Process: read, decode, replace, encode, then write once per file
3. Finish: summarize, warning about patterns that found nothing

⚡ Key Responsibilities:
- A pattern with no match leaves the file untouched; no write happens
- Dry runs print a line diff instead of writing
- Check fails with text.ErrNoMatch when any patch would not apply
- Restore copies <target>.bak back over the target

🤝 Interfaces:
- Operation: what the runner drives
- status.StatusReporter: progress and outcome tracking

🔍 Example:

	op := operation.NewApplyOperation(operation.Options{
		Config:    config.Default(),
		StatusMgr: status.NewManager(".", nil),
		Console:   log.New(os.Stdout, zerolog.Nop()),
	})

	runner := operation.NewRunner(&logger, op.StatusMgr, false)
	if err := runner.Run(ctx, op); err != nil {
		return err
	}
*/
package operation
