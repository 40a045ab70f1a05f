/*
Package migration upgrades archives written under legacy schema layouts to
the current one.

Each upgrade is declared as a step that raises the archive to one specific
schema version. Steps are kept in an ordered register; the driver reads the
declared version of the archive and applies every step whose target exceeds
it, advancing and persisting the declared version after each step completes.
A partial step failure therefore never leaves the archive claiming a version
it does not structurally satisfy, but the step's edits are not rolled back:
run with a copy target when the input must survive a failed run.

Two steps match the historical evolution of the format. The step to 1.1
consumes the legacy catalog tables, projecting their rows onto entry and
dataset attributes and splitting wide datasets into single channel ones. The
step to 2.0 strips bookkeeping attributes left behind by the previous
container implementation, gives every entry a unique identifier and
backfills missing sampling rates from a caller supplied value.

Migration is a single writer operation. The engine takes no lock of its own;
the caller must ensure nothing else reads or writes the archive for the
duration of the run.
*/
package migration
