package service

import (
	"errors"
	"fmt"
	"strings"
)

// Every pipeline failure carries enough context to be shown to the user
// directly; there is no retry or local recovery. Errors are either abort
// class (user-fixable) or bug class (internal inconsistency the user cannot
// fix). Bug-class errors implement bugError.

type bugError interface {
	error
	isBug()
}

// IsBug reports whether err is an internal-inconsistency failure rather than
// a user-fixable one.
func IsBug(err error) bool {
	var b bugError
	return errors.As(err, &b)
}

// WorkspaceNotFoundError indicates no generated workspace exists at the path
type WorkspaceNotFoundError struct {
	Path string
}

func (e *WorkspaceNotFoundError) Error() string {
	return fmt.Sprintf("workspace not found at %s, generate it first", e.Path)
}

// SchemeNotFoundError indicates the requested scheme is absent from the
// eligible set. Existing preserves the listing order of eligible schemes.
type SchemeNotFoundError struct {
	Scheme   string
	Existing []string
}

func (e *SchemeNotFoundError) Error() string {
	return fmt.Sprintf("couldn't find scheme %s. The available schemes are: %s.",
		e.Scheme, strings.Join(e.Existing, ", "))
}

// SchemeWithoutBuildableTargetsError indicates the scheme has no target that
// can be built directly
type SchemeWithoutBuildableTargetsError struct {
	Scheme string
}

func (e *SchemeWithoutBuildableTargetsError) Error() string {
	return fmt.Sprintf("the scheme %s cannot be built because it contains no buildable targets", e.Scheme)
}

// SchemeWithoutRunnableTargetError indicates the scheme has no target whose
// product can be executed
type SchemeWithoutRunnableTargetError struct {
	Scheme string
}

func (e *SchemeWithoutRunnableTargetError) Error() string {
	return fmt.Sprintf("the scheme %s cannot be run because it contains no runnable target", e.Scheme)
}

// RunnableNotFoundError indicates the expected artifact is missing after a
// successful build
type RunnableNotFoundError struct {
	Path string
}

func (e *RunnableNotFoundError) Error() string {
	return fmt.Sprintf("the runnable product was expected but not found at %s", e.Path)
}

// BuildProductsNotFoundError indicates the toolchain reported success but its
// expected output directory is missing. Bug class: this is an internal
// inconsistency, not something the user can fix.
type BuildProductsNotFoundError struct {
	Path string
}

func (e *BuildProductsNotFoundError) Error() string {
	return fmt.Sprintf("the build products were expected but not found at %s", e.Path)
}

func (e *BuildProductsNotFoundError) isBug() {}

// AppLaunchUnsupportedError indicates a run was requested for an application
// bundle, which this snapshot cannot launch.
type AppLaunchUnsupportedError struct {
	BundlePath string
}

func (e *AppLaunchUnsupportedError) Error() string {
	return fmt.Sprintf("launching app bundles is not supported yet (%s)", e.BundlePath)
}

// ExitCodeError carries the exit status of an executed product so the CLI can
// propagate it.
type ExitCodeError struct {
	Code int
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("process exited with code %d", e.Code)
}
