package diagnostics

import "k8s.io/klog/v2"

// KlogReporter logs diagnostics with klog: warnings for kinds where IsWarning is true,
// and verbosity-1 info for the rest (use -v=1 to audit expanded alignments).
type KlogReporter struct{}

// Report implements Reporter.
func (KlogReporter) Report(d Diagnostic) {
	if d.Kind.IsWarning() {
		klog.Warning(d.String())
		return
	}
	klog.V(1).Info(d.String())
}
