// Package process launches encoder subprocesses through the platform shell
// and owns them until they are reaped.
//
// A Spawner is chosen once per platform:
//   - POSIX: sh -c <command>, started in its own process group so signals
//     reach the encoder and not just the shell
//   - Windows: cmd.exe /c <command> in a new process group without a console
//
// Spawn returns a Handle, the only owner of the subprocess:
//   - WriteStdin/CloseStdin for the encoder's interactive quit handshake
//   - Wait polls for exit with a timeout
//   - Kill escalates from a polite terminate to a hard kill
//   - WaitOrKill combines both into the bounded-wait shutdown policy
//
// Example:
//
//	sp := process.NewSpawner(logger)
//	h, err := sp.Spawn("ffmpeg -y -f x11grab -i :0.0 out.mp4", logFile)
//	if err != nil {
//	    return err
//	}
//	_ = h.WriteStdin("q\n")
//	_ = h.CloseStdin()
//	if forced := h.WaitOrKill(5*time.Second, 2*time.Second); forced {
//	    logger.Warn("Encoder killed")
//	}
package process
