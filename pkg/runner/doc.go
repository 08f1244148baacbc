/*
Package runner implements the interactive execution loop for walking an
automaton one transition at a time.

It bridges a Session and the outside world: each iteration it presents the
current configuration and the applicable transitions, reads a command, and
moves the session accordingly. With a configured store the session is saved
after every move, so an interrupted walk can be resumed later.

# Key Components

  - Runner: the orchestrator. Drives the loop until the walk settles, the
    user quits, or the context is canceled.
  - IOHandler: decouples how steps are presented and commands read.
  - TextHandler: interactive CLI presentation with a numbered menu.
  - JSONHandler: JSON-Lines presentation for driving the loop from another
    process.

# Usage

	eng, _ := espalier.New("machines/parens.yaml")
	sess := eng.NewSession("(())")

	r := runner.NewRunner()
	if err := r.Run(ctx, sess, ""); err != nil {
		log.Fatal(err)
	}

The command protocol is the same for every handler: a number applies the
transition with that menu position, "b" backtracks one move, "q" quits.
*/
package runner
