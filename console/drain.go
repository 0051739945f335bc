package console

import (
	uerrors "console-toolkit/util/errors"
	"time"
)

// drainRoutine pulls bytes off the transport for as long as the socket
// is open. Deadline expiries are normal idle ticks; any other transport
// error is fatal to the routine. Teardown of the transport and log file
// is left to Close, which waits for this routine first.
func (s *Socket) drainRoutine() {
	defer func() {
		s.wg.Done()
		log.WithField("console", s.id).Debug("Drain routine done")
	}()
	buf := s.pool.Get()
	defer s.pool.Put(buf)
	for s.open.Get() {
		err := s.drainOnce(buf)
		if err == nil {
			continue
		}
		if uerrors.IsDeadlineError(err) {
			time.Sleep(s.cfg.IdleSleep)
			continue
		}
		s.drainErr.Store(err)
		log.WithField("console", s.id).Warnf("Drain routine terminated: %v", err)
		return
	}
}

// drainOnce performs a single bounded read and hands whatever arrived to
// the log file and the buffer, in that order. Bytes are kept verbatim;
// any value 0-255 passes through untouched.
func (s *Socket) drainOnce(buf []byte) error {
	if err := s.Conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout)); err != nil {
		return err
	}
	n, err := s.Conn.Read(buf)
	if n > 0 {
		if s.logw != nil {
			if _, werr := s.logw.Write(buf[:n]); werr != nil {
				return werr
			}
			// Flush per read so an external tail -f sees output promptly.
			if werr := s.logw.Flush(); werr != nil {
				return werr
			}
		}
		s.buffer.append(buf[:n])
	}
	return err
}
