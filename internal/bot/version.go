package bot

const Version = "0.1.0"
