package hook

import "fmt"

// Interface is a try/catch/finally bracket. Finally is guaranteed to run
// whatever Try does, including a panic, so resource release placed there is
// structurally enforced rather than repeated at every failure site.
type Interface interface {
	Try() error
	Catch(err error) error
	Finally()
}

// Call executes the hook: Try, then Catch on error, with Finally deferred
// on every exit path. A panic inside Try is converted to an error.
func Call(hook Interface) (err error) {
	if hook == nil {
		return fmt.Errorf("hook cannot be nil")
	}

	defer hook.Finally()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic occurred during hook execution: %v", r)
		}
	}()

	tryErr := hook.Try()
	if tryErr != nil {
		err = hook.Catch(tryErr)
		return err
	}

	return nil
}
