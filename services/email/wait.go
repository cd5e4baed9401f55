package emailsvc

import "github.com/trezcool/gradebook/core"

// Wait blocks until svc has sent the messages it was given, when svc sends asynchronously.
func Wait(svc core.EmailService) {
	if w, ok := svc.(interface{ Wait() }); ok {
		w.Wait()
	}
}
