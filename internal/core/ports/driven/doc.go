// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Preprocessor: Loads a source image and produces role-tuned views
//   - ArrowDetector: Finds arrows in the arrows view
//   - UnifiedDetector: Finds diagrams, labels and conditions
//   - Recogniser: Turns a diagram crop into a SMILES string
//   - RoleProbe: Infers reaction steps from arrows and diagrams
//   - ImageLister: Enumerates a batch directory
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Upsampler: Super-resolution for the labels view. Without it, labels are only sharpened.
//   - BondEstimator: Single-bond length estimate attached to the figure.
//   - Serialiser / ArtifactWriter: Without them, no artifacts are written.
//   - Visualiser: Without it, the visualize switch is ignored.
//   - RunStore: Without it, runs are not recorded.
//   - DirectoryWatcher: Only needed by watch mode.
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
