package searcher

// Hyperparameters for MCTS

const CExplore = 1.4 // Exploration constant while training (~sqrt(2))
const CExploit = 0.0 // Pure exploitation when choosing the move to play
