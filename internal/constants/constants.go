package constants

const ElectronCharge = 1.602176634e-19                   // C
const ElectronMass float64 = 9.1093837139e-31            // [kg]
const FreeSpacePermittivityE0 float64 = 8.8541878188e-12 // [m^-3 kg^{-1} s^4 A^2]
const SpeedOfLight float64 = 299792458.                  // [m/s]

// Fowler-Nordheim constants
const FirstFN float64 = 1.541434e-6    // [A eV V^-2]
const SecondFN float64 = 6.830890e9    // [eV^{-3/2} V m^-1]
const SchottkyFN float64 = 1.439964e-9 // [eV^2 V^-1 m]
