// Package recorder drives one ffmpeg recording session.
//
// A Session owns at most one encoder process. Start launches it with the
// session's immutable options and waits through a short warm-up window so an
// encoder that dies on bad input is reported as a startup failure instead of
// a running recording. Stop asks the encoder to quit by writing "q" to its
// stdin, closes stdin and the log file, waits a bounded time, kills the
// process if it is still alive, then probes the output file.
//
//	s, err := recorder.New(recorder.Config{
//		Video:  ffmpeg.DefaultInput(),
//		Output: "/tmp/out.mp4",
//	})
//	if err != nil {
//		return err
//	}
//	if _, err := s.Start(); err != nil {
//		return err
//	}
//	time.Sleep(10 * time.Second)
//	artifact, err := s.Stop()
//
// Operations on a Session are serialized. Status and ProcessTime may be
// called concurrently with a running Stop.
package recorder
