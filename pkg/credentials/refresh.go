package credentials

import "context"

// Run is the refresh loop. It waits WaitInterval, reloads, and repeats until
// ctx is cancelled, then returns ctx.Err(). Both the wait and the fetch
// observe ctx.
//
// Run is meant to be started once per provider, typically as
//
//	go p.Run(ctx)
func (p *ContainerProvider) Run(ctx context.Context) error {
	p.logger.V(1).Info("credentials refresh loop started")
	defer p.logger.V(1).Info("credentials refresh loop stopped")

	for {
		timer := p.clock.NewTimer(p.WaitInterval())
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C():
		}

		p.Reload(ctx)
	}
}
