package model

// Version is the released version of mypyreveal.
var Version = "0.3.0"
