package loginit

// ResetInstallForTest clears the install latch so [Config.Init] can run again.
func ResetInstallForTest() {
	installMu.Lock()
	defer installMu.Unlock()

	installed = false
}
