package rscript

// marker prefixes every reply line written by the R side. Anything else
// on interpreter stdout is user output.
const marker = "#rb> "

// bootstrap is R program run by Rscript. It serves requests read from
// stdin, one per line:
//
//	E "src"   evaluate source in global environment, reply OK <id>
//	G id      reply value of handle as VAL block
//	F id      release handle, reply OK <id>
//
// Failures reply ERR "message". Handles live in .rb$h until released.
const bootstrap = `local({
  rb <- new.env()
  rb$h <- new.env()
  rb$n <- 0L
  rb$reply <- function(...) cat("\n#rb> ", ..., "\n", sep = "")
  rb$call <- function(f, args) {
    for (i in seq_along(args))
      if (is.language(args[[i]])) args[i] <- list(call("quote", args[[i]]))
    do.call(f, args)
  }
  rb$enc <- function(x) {
    if (is.null(x)) return("VAL NULL 0")
    if (is.list(x)) {
      out <- paste("VAL list", length(x))
      for (i in seq_along(x)) out <- c(out, rb$enc(x[[i]]))
      return(out)
    }
    m <- typeof(x)
    s <- switch(m,
      logical = ifelse(x, "TRUE", "FALSE"),
      integer = as.character(x),
      double = sprintf("%.17g", x),
      character = encodeString(x, quote = '"'),
      stop("cannot convert ", class(x)[1], " to Go value"))
    if (m != "double") s[is.na(x)] <- "NA"
    c(paste("VAL", m, length(x)), s)
  }
  rb$err <- function(e) rb$reply("ERR ", encodeString(conditionMessage(e), quote = '"'))
  assign(".rb", rb, envir = globalenv())

  con <- file("stdin", "r")
  repeat {
    line <- readLines(con, n = 1)
    if (length(line) == 0) break
    op <- substr(line, 1, 1)
    arg <- substring(line, 3)
    tryCatch(switch(op,
      E = {
        src <- parse(text = arg)[[1]]
        id <- as.character(rb$n + 1L)
        rb$h[[id]] <- eval(parse(text = src), envir = globalenv())
        rb$n <- rb$n + 1L
        rb$reply("OK ", id)
      },
      G = {
        if (!exists(arg, envir = rb$h, inherits = FALSE)) stop("invalid handle ", arg)
        for (l in rb$enc(rb$h[[arg]])) rb$reply(l)
      },
      F = {
        if (exists(arg, envir = rb$h, inherits = FALSE)) rm(list = arg, envir = rb$h)
        rb$reply("OK ", arg)
      },
      stop("unknown request ", op)), error = rb$err)
  }
})`
